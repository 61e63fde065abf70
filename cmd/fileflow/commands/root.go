// Package commands implements the CLI commands for fileflow.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/fileflow/internal/app"
)

// CLI represents the command line interface for fileflow.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "fileflow",
		Short:         "Run file-based pipelines whose tasks skip when their outputs exist",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the pipeline file (default: ./fileflow.yaml)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and errors. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// options reads the pipeline selection shared by all commands.
func options(cmd *cobra.Command) (app.Options, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{ConfigPath: configPath}, nil
}
