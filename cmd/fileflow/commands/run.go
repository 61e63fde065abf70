package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fileflow/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every task of the pipeline in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			keepGoing, err := cmd.Flags().GetBool("keep-going")
			if err != nil {
				return err
			}
			stream, err := cmd.Flags().GetBool("stream")
			if err != nil {
				return err
			}
			if stream {
				c.app.Stream(cmd.OutOrStdout())
			}
			return c.app.Run(cmd.Context(), app.RunOptions{Options: opts, KeepGoing: keepGoing})
		},
	}

	cmd.Flags().BoolP("keep-going", "k", false, "Run remaining tasks after a task fails")
	cmd.Flags().Bool("stream", false, "Print each task's command output and final state")

	return cmd
}
