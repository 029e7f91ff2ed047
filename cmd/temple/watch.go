package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/pkg/temple"
)

// changeEvent is one line of watch output.
type changeEvent struct {
	Table string    `json:"table"`
	At    time.Time `json:"at"`
}

func newWatchCmd(a *app) *cobra.Command {
	var maxEvents int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever another process changes a table",
		Long: `Watch follows the data directory and prints one JSON line per changed
table until interrupted. Only the files backend can be watched.`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withTemple(func(tp *temple.Temple) error {
				changes := make(chan string, 64)
				err := tp.Watch(ctx, func(table string) {
					select {
					case changes <- table:
					default:
						a.log.Warn().Str("table", table).Msg("Dropped change notification")
					}
				})
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				seen := 0
				for {
					select {
					case <-ctx.Done():
						return nil
					case table := <-changes:
						if err := enc.Encode(changeEvent{Table: table, At: time.Now().UTC()}); err != nil {
							return err
						}
						seen++
						if maxEvents > 0 && seen >= maxEvents {
							return nil
						}
					}
				}
			})
		},
	}
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "exit after this many changes (0 means run until interrupted)")
	return cmd
}
