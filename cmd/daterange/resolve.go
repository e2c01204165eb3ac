package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/daterange/internal/daterange"
)

func newResolveCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "resolve <category>",
		Short: "Print the dates a range category stands for",
		Long:  "Resolve a range category, given by label (\"this week\") or code (6), against today or --at.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			loc, err := a.cfg.UI.Location()
			if err != nil {
				return err
			}
			now := time.Now().In(loc)
			if at != "" {
				if now, err = time.ParseInLocation("2006-01-02", at, loc); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}
			from, to, ok := daterange.Resolve(cat, now)
			a.logger.Debug("resolve", "category", int(cat), "now", now, "ok", ok)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "%s: leaves from/to untouched\n", cat)
				return nil
			}
			fmt.Fprintf(out, "%s: %s -> %s\n", cat, from.Format(daterange.ISOLayout), to.Format(daterange.ISOLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Reference date (YYYY-MM-DD), default today")
	return cmd
}

func parseCategory(arg string) (daterange.Category, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		return daterange.Category(n), nil
	}
	cat, ok := daterange.LookupCategory(arg)
	if !ok {
		return 0, fmt.Errorf("unknown range category %q", arg)
	}
	return cat, nil
}
