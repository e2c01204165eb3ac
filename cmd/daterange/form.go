package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/daterange/internal/config"
	"github.com/jask/daterange/internal/daterange"
	"github.com/jask/daterange/internal/database"
	"github.com/jask/daterange/internal/database/repository"
	"github.com/jask/daterange/internal/service"
	"github.com/jask/daterange/internal/tui"
)

func newFormCmd(a *app) *cobra.Command {
	var simple bool
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Edit the configured date range interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.cfg.UI.Location()
			if err != nil {
				return err
			}
			fc := a.cfg.Form
			if simple {
				fc.Categories = nil
			}

			db, err := database.OpenMigrated(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			ctl := newControl(fc, func() time.Time { return time.Now().In(loc) })
			defer ctl.Destroy()

			rec := &service.Recorder{
				Snapshots: repository.NewSnapshotRepo(db),
				Form:      fc.Name,
				Keep:      a.cfg.Database.Keep,
				Logger:    a.logger.With("form", fc.Name),
			}
			restored, err := rec.Restore(ctx, ctl)
			if err != nil {
				return err
			}
			if !restored {
				ctl.SelectCategory(daterange.Category(fc.DefaultCategory))
			}
			rec.Attach(ctx, ctl)

			model := tui.New(fmt.Sprintf("Date range: %s", fc.Name), ctl, a.cfg.UI.DateFormat)
			defer model.Close()
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run form: %w", err)
			}

			a.logger.Info("form closed", "form", fc.Name, "changes", model.Changes(), "recorded", rec.Recorded())
			v := ctl.Value()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", v.RangeType, ctl.StartDateString(), ctl.EndDateString())
			return rec.Err()
		},
	}
	cmd.Flags().BoolVar(&simple, "simple", false, "Hide the category selector and always show the pickers")
	return cmd
}

func newControl(fc config.FormConfig, now func() time.Time) *daterange.Control {
	opts := make([]daterange.CategoryOption, 0, len(fc.Categories))
	for _, o := range fc.Categories {
		opts = append(opts, daterange.CategoryOption{Value: daterange.Category(o.Value), Label: o.Label})
	}
	return daterange.New(
		daterange.WithClock(now),
		daterange.WithOptions(opts),
		daterange.WithRevealCategory(daterange.Category(fc.RevealCategory)),
		daterange.WithCategory(daterange.Category(fc.DefaultCategory)),
	)
}
