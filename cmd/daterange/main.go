package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/daterange/internal/config"
)

var version = "dev"

type app struct {
	configPath string
	verbose    bool
	cfg        config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "daterange",
		Short:        "Date range form control",
		Long:         "daterange resolves named date ranges and hosts an interactive date range input that records every change.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath != "" {
				if err := os.Setenv("DATERANGE_CONFIG", a.configPath); err != nil {
					return fmt.Errorf("set config path: %w", err)
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if a.verbose {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg
			a.logger, err = newLogger(cmd.ErrOrStderr(), cfg.Log)
			return err
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newResolveCmd(a))
	root.AddCommand(newFormCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newInitCmd(a))
	return root
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if lc.Level != "" {
		if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", lc.Format)
	}
}
