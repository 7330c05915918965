// Package cli wires the terminal's operations into a cobra command tree.
// Every command builds a fresh session against the configured backend,
// performs one operation, and renders the result as text or JSON.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paintbistro/posterm/internal/api"
	"github.com/paintbistro/posterm/internal/config"
	"github.com/paintbistro/posterm/internal/session"
	"github.com/paintbistro/posterm/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the POS terminal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pos",
		Short: "POS terminal client",
		Long:  "Point-of-sale terminal client: menu, invoices, receipts, and end-of-day reporting against the shop backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file")

	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewInvoicesCommand(opts))
	cmd.AddCommand(NewReceiptCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatter builds the output formatter for one command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newSession loads config, opens the snapshot store, and initializes a
// session against the backend. The returned cleanup closes the store.
func newSession(ctx context.Context, opts *RootOptions) (*session.Session, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var st *store.Store
	cleanup := func() {}
	if cfg.SnapshotPath != "" {
		if st, err = store.Open(cfg.SnapshotPath); err != nil {
			// degraded but workable: everything except offline fallback
			logger.Warn("snapshot store unavailable", "path", cfg.SnapshotPath, "error", err)
			st = nil
		} else {
			cleanup = func() { st.Close() }
		}
	}

	s := session.New(cfg, api.New(cfg.APIBaseURL, logger), st, logger)
	if err := s.Init(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}
