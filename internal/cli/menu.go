package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paintbistro/posterm/internal/catalog"
)

// MenuOptions holds flags for the menu command.
type MenuOptions struct {
	*RootOptions
	Category string
	Search   string
}

// NewMenuCommand creates the menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the active menu",
		Long: `List the active menu items, optionally filtered.

Examples:
  pos menu
  pos menu --category Drink
  pos menu --search latte`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", catalog.CategoryAll, "filter by category")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "search by name, category, or type")

	return cmd
}

func runMenu(cmd *cobra.Command, opts *MenuOptions) error {
	out := formatter(opts.RootOptions, cmd)

	s, cleanup, err := newSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return out.ReportError(err)
	}
	defer cleanup()

	var items []catalog.MenuItem
	if opts.Search != "" {
		items = s.SearchMenu(opts.Search)
	} else {
		items = s.FilterMenu(opts.Category)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{
			"items":      items,
			"categories": s.MenuCategories(),
		})
	}

	if len(items) == 0 {
		fmt.Fprintln(out.Writer, "No items found")
		return nil
	}
	for _, item := range items {
		price := fmt.Sprintf("$%.2f", item.OriginalPrice)
		if item.IsPromo && item.PromoPrice > 0 {
			price = fmt.Sprintf("$%.2f (was $%.2f)", item.PromoPrice, item.OriginalPrice)
		}
		badge := ""
		if item.Badge != "" {
			badge = "  [" + item.Badge + "]"
		}
		fmt.Fprintf(out.Writer, "%-26s %-14s %s%s\n", item.Name, item.Category, price, badge)
	}
	return nil
}
