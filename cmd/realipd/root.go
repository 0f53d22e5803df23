package main

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the root CLI command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "realipd",
		Short:         "Resolve the real client address of HTTP requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "path to YAML config file")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewResolveCommand())
	return cmd
}
