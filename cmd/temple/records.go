package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/pkg/temple"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <table> [key=value...]",
		Short: "List records with optional filters",
		Long: `List prints the records of a table in stored order.

Filters are key=value pairs on top-level record fields and are ANDed
together. String matches ignore case; array fields match any element.
limit=N and offset=N page through the results.

Tables: ` + validTableNamesStr + `

Example:
  temple list events
  temple list events category=festival
  temple list daily-poojas days=monday limit=5`,
		Args: userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilterArgs(args[1:])
			if err != nil {
				return err
			}
			return a.withTemple(func(tp *temple.Temple) error {
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				records, err := tbl.Fetch(filter)
				if err != nil {
					return err
				}
				return a.print(cmd, records)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Get a record by id",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				record, err := tbl.Get(args[1])
				if err != nil {
					return err
				}
				return a.print(cmd, record)
			})
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var data, file, image string
	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create a record from JSON",
		Long: `Create adds a record to a table. The id and timestamps are assigned by
the store; unset fields with defaults are filled in.

Example:
  temple create events --data '{"title":"Holi","date":"2026-03-03"}'
  temple create gallery --data '{"title":"Gopuram"}' --image gopuram.jpg
  temple create staff --file priest.json`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readRecordJSON(cmd, data, file)
			if err != nil {
				return err
			}
			return a.withTemple(func(tp *temple.Temple) error {
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				body, err := attachImage(body, tbl.Name(), tbl.ImageField(), image)
				if err != nil {
					return err
				}
				record, err := tbl.Create(body)
				if err != nil {
					return err
				}
				return a.print(cmd, record)
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "record as a JSON object")
	cmd.Flags().StringVar(&file, "file", "", `read the record from a file ("-" for stdin)`)
	cmd.Flags().StringVar(&image, "image", "", "image file to store as a data URI in the record's image field")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var data, file, image string
	cmd := &cobra.Command{
		Use:   "update <table> <id>",
		Short: "Merge JSON fields into a record",
		Long: `Update shallow-merges the given fields over the stored record. Fields
not named are kept; id and createdAt never change.

Example:
  temple update events 0199... --data '{"location":"Main Hall"}'`,
		Args: userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" && file == "" && image == "" {
				return userErrorf("update: one of --data, --file, or --image is required")
			}
			body, err := readRecordJSON(cmd, data, file)
			if err != nil {
				return err
			}
			return a.withTemple(func(tp *temple.Temple) error {
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				body, err := attachImage(body, tbl.Name(), tbl.ImageField(), image)
				if err != nil {
					return err
				}
				record, err := tbl.Patch(args[1], body)
				if err != nil {
					return err
				}
				return a.print(cmd, record)
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "fields to merge as a JSON object")
	cmd.Flags().StringVar(&file, "file", "", `read the fields from a file ("-" for stdin)`)
	cmd.Flags().StringVar(&image, "image", "", "image file to store as a data URI in the record's image field")
	return cmd
}

// deleteResult acknowledges a delete.
type deleteResult struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Remove a record by id",
		Long:  "Delete removes a record. Deleting an id that does not exist succeeds and changes nothing.",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				removed, err := tbl.Delete(args[1])
				if err != nil {
					return err
				}
				msg := "Record deleted"
				if !removed {
					msg = "No record with that id"
				}
				return a.print(cmd, deleteResult{Message: msg, Deleted: removed})
			})
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [table]",
		Short: "Restore tables to their default records",
		Long: `Reset drops a table's stored records so that the next access writes its
default records again. Use --all to reset every table.`,
		Args: userArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return userErrorf("reset: give exactly one of a table name or --all")
			}
			return a.withTemple(func(tp *temple.Temple) error {
				if all {
					if err := tp.ResetAll(); err != nil {
						return err
					}
					return a.print(cmd, map[string]string{"message": "All tables reset"})
				}
				tbl, err := table(tp, args[0])
				if err != nil {
					return err
				}
				if err := tbl.Reset(); err != nil {
					return err
				}
				return a.print(cmd, map[string]string{"message": "Table " + tbl.Name() + " reset"})
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every table")
	return cmd
}

// statsResult describes the open store.
type statsResult struct {
	Backend string              `json:"backend"`
	DataDir string              `json:"dataDir"`
	Tables  []temple.TableStats `json:"tables"`
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the records in every table",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				stats, err := tp.Stats()
				if err != nil {
					return err
				}
				cfg := tp.Config()
				return a.print(cmd, statsResult{Backend: cfg.Backend, DataDir: cfg.DataDir, Tables: stats})
			})
		},
	}
}
