package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/daterange/internal/daterange"
	"github.com/jask/daterange/internal/database"
	"github.com/jask/daterange/internal/database/repository"
	"github.com/jask/daterange/internal/service"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		form  string
		wipe  bool
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded range changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && !wipe {
				return fmt.Errorf("--all only applies with --clear")
			}
			if all && form != "" {
				return fmt.Errorf("--all and --form are mutually exclusive")
			}
			if form == "" && !all {
				form = a.cfg.Form.Name
			}
			db, err := database.OpenMigrated(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if wipe {
				removed, err := (&service.MaintenanceService{DB: db}).Clear(ctx, form)
				if err != nil {
					return err
				}
				a.logger.Info("cleared history", "form", form, "removed", removed)
				if all {
					fmt.Fprintf(out, "Removed %d snapshots of all forms\n", removed)
					return nil
				}
				fmt.Fprintf(out, "Removed %d snapshots of %s\n", removed, form)
				return nil
			}

			snaps, err := repository.NewSnapshotRepo(db).List(ctx, form, limit)
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			if len(snaps) == 0 {
				fmt.Fprintf(out, "No snapshots recorded for %s\n", form)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RECORDED\tCATEGORY\tFROM\tTO")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					daterange.Category(s.RangeType),
					s.From.Format(daterange.ISOLayout),
					s.To.Format(daterange.ISOLayout))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().StringVar(&form, "form", "", "Form name (defaults to form.name)")
	cmd.Flags().BoolVar(&wipe, "clear", false, "Delete the recorded history of the form")
	cmd.Flags().BoolVar(&all, "all", false, "With --clear, delete the history of every form and compact the database")
	return cmd
}
