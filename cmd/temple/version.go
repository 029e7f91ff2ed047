package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/pkg/temple"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the temple version",
		Args:  userArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "temple", temple.Version)
		},
	}
}
