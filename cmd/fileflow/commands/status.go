package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which task outputs exist without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}

			states, err := c.app.Status(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, state := range states {
				mark := "pending"
				if state.Complete() {
					mark = "done"
				}
				for _, out := range state.Outputs {
					size := "-"
					if out.Exists {
						size = out.Size
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, state.Task, out.Path, size)
				}
			}
			return w.Flush()
		},
	}
}
