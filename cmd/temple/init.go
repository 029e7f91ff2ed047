package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/pkg/temple"
)

// initResult reports where the store lives.
type initResult struct {
	Message   string              `json:"message"`
	ConfigDir string              `json:"configDir"`
	DataDir   string              `json:"dataDir"`
	Backend   string              `json:"backend"`
	Tables    []temple.TableStats `json:"tables"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config and data directories and seed every table",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				// Counting reads every partition, which seeds the absent ones.
				stats, err := tp.Stats()
				if err != nil {
					return err
				}
				cfg := tp.Config()
				return a.print(cmd, initResult{
					Message:   "Temple initialized",
					ConfigDir: a.configDir,
					DataDir:   cfg.DataDir,
					Backend:   cfg.Backend,
					Tables:    stats,
				})
			})
		},
	}
}
