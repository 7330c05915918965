package cli

import (
	"github.com/spf13/cobra"
)

// NewReceiptCommand creates the receipt command.
func NewReceiptCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <invoice-id>",
		Short: "Print a receipt for an invoice",
		Long: `Reconstruct and print the receipt for a stored invoice.

KHR amounts use the exchange rate pinned on the invoice at the time of
sale, so historical receipts stay consistent after rate changes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipt(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runReceipt(cmd *cobra.Command, opts *RootOptions, invoiceID string) error {
	out := formatter(opts, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	if err := s.Receipt(cmd.Context(), invoiceID, out.Writer); err != nil {
		return out.ReportError(err)
	}
	return nil
}
