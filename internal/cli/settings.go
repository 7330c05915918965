package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paintbistro/posterm/internal/api"
)

// SettingsOptions holds flags for the settings command.
type SettingsOptions struct {
	*RootOptions
	SetRate float64
	Header  string
	Footer  string
}

// NewSettingsCommand creates the settings command.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SettingsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update shop settings",
		Long: `Show the shop settings, or update them through the admin endpoint.

A changed exchange rate does not apply immediately: the backend schedules
it for midnight and reports it back as pending.

Examples:
  pos settings
  pos settings --set-rate 4100
  pos settings --header "Paint Coffee\nART & BISTRO"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.SetRate, "set-rate", 0, "new USD to KHR exchange rate")
	cmd.Flags().StringVar(&opts.Header, "header", "", "new receipt header")
	cmd.Flags().StringVar(&opts.Footer, "footer", "", "new receipt footer")

	return cmd
}

func runSettings(cmd *cobra.Command, opts *SettingsOptions) error {
	out := formatter(opts.RootOptions, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	settings := s.Settings()
	if opts.SetRate > 0 || opts.Header != "" || opts.Footer != "" {
		update := settings
		if opts.SetRate > 0 {
			update.ExchangeRate = opts.SetRate
		}
		if opts.Header != "" {
			update.ReceiptHeader = opts.Header
		}
		if opts.Footer != "" {
			update.ReceiptFooter = opts.Footer
		}
		if settings, err = s.UpdateSettings(cmd.Context(), update); err != nil {
			return out.ReportError(err)
		}
	}

	if opts.Format == "json" {
		return out.Success(settings)
	}
	printSettings(out, settings, s.Rate())
	return nil
}

func printSettings(out *OutputFormatter, settings api.Settings, liveRate float64) {
	fmt.Fprintf(out.Writer, "Exchange rate: %.0f\n", liveRate)
	if settings.PendingExchangeRate > 0 {
		fmt.Fprintf(out.Writer, "Pending rate:  %.0f (effective 12:00 AM)\n", settings.PendingExchangeRate)
	}
	if settings.Currency != "" {
		fmt.Fprintf(out.Writer, "Currency:      %s\n", settings.Currency)
	}
	if settings.ReceiptHeader != "" {
		fmt.Fprintf(out.Writer, "Header:        %q\n", settings.ReceiptHeader)
	}
	if settings.ReceiptFooter != "" {
		fmt.Fprintf(out.Writer, "Footer:        %q\n", settings.ReceiptFooter)
	}
}
