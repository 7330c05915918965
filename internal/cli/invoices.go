package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InvoicesOptions holds flags for the invoices command.
type InvoicesOptions struct {
	*RootOptions
	Search string
	Stats  bool
}

// NewInvoicesCommand creates the invoices command.
func NewInvoicesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvoicesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List invoices",
		Long: `List the shop's invoices, newest data first. Cancelled invoices
are hidden. When the backend is unreachable the last good local snapshot
answers instead.

Examples:
  pos invoices
  pos invoices --search pending
  pos invoices --stats`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoices(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by id, table, total, status, or payment method")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "show counters instead of the list")

	return cmd
}

func runInvoices(cmd *cobra.Command, opts *InvoicesOptions) error {
	out := formatter(opts.RootOptions, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	if opts.Stats {
		st, err := s.Stats(cmd.Context())
		if err != nil {
			return out.ReportError(err)
		}
		if opts.Format == "json" {
			return out.Success(st)
		}
		fmt.Fprintf(out.Writer, "Invoices: %d\n", st.Total)
		fmt.Fprintf(out.Writer, "Paid:     %d\n", st.Paid)
		fmt.Fprintf(out.Writer, "Pending:  %d\n", st.Pending)
		fmt.Fprintf(out.Writer, "Revenue:  $%.2f\n", st.Revenue)
		return nil
	}

	list, err := s.SearchInvoices(cmd.Context(), opts.Search)
	if err != nil {
		return out.ReportError(err)
	}

	if opts.Format == "json" {
		return out.Success(list)
	}

	if len(list) == 0 {
		fmt.Fprintln(out.Writer, "No invoices found")
		return nil
	}
	for _, inv := range list {
		table := "-"
		if inv.Table > 0 {
			table = fmt.Sprintf("T%d", inv.Table)
		}
		fmt.Fprintf(out.Writer, "%s  %s  %-8s %-8s %-4s $%.2f\n",
			inv.InvoiceID, inv.Date.Format("02-01-2006 15:04"),
			inv.Status, inv.PaymentMethod, table, inv.Total)
	}
	return nil
}
