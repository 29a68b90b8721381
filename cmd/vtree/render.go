package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/dom"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var moduleNames []string

	cmd := &cobra.Command{
		Use:   "render TREE.json",
		Short: "Materialize a tree document and print its HTML",
		Long: `Materialize a tree document into an in-memory document and print
the resulting HTML. Use "-" to read the document from stdin.

Examples:
  vtree render page.json
  echo '{"sel":"p","text":"hi"}' | vtree render -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			eng, err := newEngine(flags.cfg, moduleNames)
			if err != nil {
				return err
			}
			out := eng.mount(tree)
			fmt.Fprintln(cmd.OutOrStdout(), dom.Render(out.Elm))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&moduleNames, "modules", "m", nil, "Modules to run, in order (default from vtree.json)")

	return cmd
}
