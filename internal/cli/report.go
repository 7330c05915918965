package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the end-of-day report",
		Long: `Aggregate today's paid invoices into the end-of-day report:
cash versus card revenue, per-item sales at official menu prices, and the
total discount given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, rootOpts)
		},
	}
	return cmd
}

func runReport(cmd *cobra.Command, opts *RootOptions) error {
	out := formatter(opts, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	if opts.Format == "json" {
		rep, err := s.BuildDailyReport(cmd.Context(), time.Now())
		if err != nil {
			return out.ReportError(err)
		}
		return out.Success(rep)
	}

	if err := s.DailyReport(cmd.Context(), out.Writer); err != nil {
		return out.ReportError(err)
	}
	return nil
}
