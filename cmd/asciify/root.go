package main

import (
	"github.com/spf13/cobra"

	"asciify/internal/config"
)

func newRootCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "asciify",
		Short:         "Render images as ASCII art and store the result",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = "0.1.0"

	cmd.AddCommand(
		newConvertCmd(cfg),
		newEnqueueCmd(cfg),
		newGDriveAuthCmd(),
	)

	return cmd
}
