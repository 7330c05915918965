package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <invoice-id>",
		Short: "Delete an invoice",
		Long: `Delete an invoice on the backend.

The terminal's role is sent with the request; the backend refuses deletes
the role may not make (paid invoices require an administrator).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runDelete(cmd *cobra.Command, opts *RootOptions, invoiceID string) error {
	out := formatter(opts, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	if err := s.DeleteInvoice(cmd.Context(), invoiceID); err != nil {
		return out.ReportError(err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{"deleted": invoiceID})
	}
	fmt.Fprintf(out.Writer, "Invoice %s deleted\n", invoiceID)
	return nil
}
