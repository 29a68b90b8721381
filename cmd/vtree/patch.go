package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/dom"
)

func patchCmd(flags *globalFlags) *cobra.Command {
	var (
		moduleNames []string
		showJournal bool
	)

	cmd := &cobra.Command{
		Use:   "patch OLD.json NEW.json",
		Short: "Patch one tree document into another",
		Long: `Materialize OLD into a fresh in-memory document, patch it to NEW
and print the resulting HTML.

With --journal, the native mutations performed by the second pass are
printed after the HTML, one JSON object per line.

Examples:
  vtree patch before.json after.json
  vtree patch --journal --modules attributes,class before.json after.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTree, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			newTree, err := readTree(cmd, args[1])
			if err != nil {
				return err
			}

			eng, err := newEngine(flags.cfg, moduleNames)
			if err != nil {
				return err
			}
			prev := eng.mount(oldTree)
			eng.journal.Reset()
			next := eng.patcher.Patch(prev, newTree)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, dom.Render(next.Elm))
			if !showJournal {
				return nil
			}

			ops := eng.journal.Ops()
			fmt.Fprintf(out, "# %d ops\n", len(ops))
			enc := json.NewEncoder(out)
			for _, op := range ops {
				if err := enc.Encode(op); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&moduleNames, "modules", "m", nil, "Modules to run, in order (default from vtree.json)")
	cmd.Flags().BoolVarP(&showJournal, "journal", "j", false, "Print the mutations of the second pass")

	return cmd
}
