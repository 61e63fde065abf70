package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [tasks...]",
		Short: "Delete the outputs of the named tasks, or of every task",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}

			cleaned, err := c.app.Clean(cmd.Context(), opts, args...)
			for _, task := range cleaned {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cleaned", task)
			}
			return err
		},
	}
}
