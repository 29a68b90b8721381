package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/modules"
)

type versionInfo struct {
	Version string   `json:"version"`
	Commit  string   `json:"commit"`
	Date    string   `json:"date"`
	Go      string   `json:"go"`
	OS      string   `json:"os"`
	Arch    string   `json:"arch"`
	Modules []string `json:"modules"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Modules: modules.DefaultNames,
	}
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the vtree version, build metadata and the built-in patch modules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := currentVersion()
			switch {
			case short:
				fmt.Fprintln(out, info.Version)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				fmt.Fprintf(out, "vtree %s (%s, built %s)\n", info.Version, info.Commit, info.Date)
				fmt.Fprintf(out, "%s %s/%s\n", info.Go, info.OS, info.Arch)
				fmt.Fprintf(out, "modules: %s\n", strings.Join(info.Modules, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")

	return cmd
}
