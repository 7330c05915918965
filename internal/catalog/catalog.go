// Package catalog holds the client-side snapshot of the server menu.
//
// The cache is read-only from the cart's perspective and is replaced
// wholesale on each fetch. Lines in the cart pin their unit price at
// add-time, so a later catalog refresh never silently reprices an
// existing order.
package catalog

import (
	"sort"
	"strings"
)

// CategoryAll is the pseudo-category matching every active item.
const CategoryAll = "All"

// MenuItem is one entry of the server menu.
//
// PromoPrice is only meaningful when IsPromo is true; the backend is
// trusted to keep promoPrice <= originalPrice.
type MenuItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OriginalPrice float64  `json:"originalPrice"`
	PromoPrice    float64  `json:"promoPrice,omitempty"`
	IsPromo       bool     `json:"isPromo"`
	IsActive      bool     `json:"isActive"`
	Category      string   `json:"category,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Type          string   `json:"type,omitempty"`
	Badge         string   `json:"badge,omitempty"`
}

// Cache is the in-memory menu snapshot.
//
// Not safe for concurrent use: the terminal session owns it from a single
// goroutine, matching the run-to-completion model of the whole client.
type Cache struct {
	items []MenuItem
	byID  map[string]int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]int)}
}

// Replace swaps the snapshot for a freshly fetched menu.
func (c *Cache) Replace(items []MenuItem) {
	c.items = make([]MenuItem, len(items))
	copy(c.items, items)
	c.byID = make(map[string]int, len(items))
	for i, item := range c.items {
		c.byID[item.ID] = i
	}
}

// Len returns the number of cached items, active or not.
func (c *Cache) Len() int {
	return len(c.items)
}

// ByID looks up a menu item by its id.
func (c *Cache) ByID(id string) (MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// ByName looks up a menu item by its display name.
//
// Invoice records store item names rather than ids, so resume-edit and
// receipt reconstruction join through this. Fragile if items are renamed,
// kept for wire compatibility with existing invoice records.
func (c *Cache) ByName(name string) (MenuItem, bool) {
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Active returns the active items in snapshot order.
func (c *Cache) Active() []MenuItem {
	out := make([]MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out
}

// FilterCategory returns active items belonging to the given category,
// matching either the multi-category list or the legacy primary category.
// CategoryAll returns every active item.
func (c *Cache) FilterCategory(category string) []MenuItem {
	if category == CategoryAll {
		return c.Active()
	}
	out := make([]MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if !item.IsActive {
			continue
		}
		if item.Category == category || containsString(item.Categories, category) {
			out = append(out, item)
		}
	}
	return out
}

// Search matches items by name, category or type (case-insensitive
// substring) or by exact id.
func (c *Cache) Search(term string) []MenuItem {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return c.Active()
	}
	out := make([]MenuItem, 0, len(c.items))
	for _, item := range c.items {
		switch {
		case strings.Contains(strings.ToLower(item.Name), needle),
			item.ID == term,
			strings.Contains(strings.ToLower(item.Category), needle),
			strings.Contains(strings.ToLower(item.Type), needle):
			out = append(out, item)
		}
	}
	return out
}

// Categories unions the server-defined category list with every category
// referenced by a cached item, so items whose category was deleted
// server-side are not orphaned from the filter bar. The result is sorted
// with CategoryAll first.
func (c *Cache) Categories(serverCategories []string) []string {
	set := map[string]struct{}{CategoryAll: {}}
	for _, name := range serverCategories {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	for _, item := range c.items {
		if len(item.Categories) > 0 {
			for _, name := range item.Categories {
				if name = strings.TrimSpace(name); name != "" {
					set[name] = struct{}{}
				}
			}
		} else if name := strings.TrimSpace(item.Category); name != "" {
			set[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		if name != CategoryAll {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return append([]string{CategoryAll}, out...)
}

// CategoryIssue describes a menu item whose category will not resolve to
// any filter button.
type CategoryIssue struct {
	ItemName string
	Category string
	Reason   string
}

// Validate reports items with a missing category or one absent from the
// server's category list. Peripheral diagnostics only; invalid items still
// sell normally.
func (c *Cache) Validate(serverCategories []string) []CategoryIssue {
	valid := make(map[string]struct{}, len(serverCategories))
	for _, name := range serverCategories {
		valid[name] = struct{}{}
	}

	var issues []CategoryIssue
	for _, item := range c.items {
		category := strings.TrimSpace(item.Category)
		switch {
		case category == "":
			issues = append(issues, CategoryIssue{ItemName: item.Name, Reason: "no category assigned"})
		default:
			if _, ok := valid[category]; !ok {
				issues = append(issues, CategoryIssue{ItemName: item.Name, Category: category, Reason: "category not in database"})
			}
		}
	}
	return issues
}

// PriceMap returns a name -> original price lookup used by receipt and
// report rendering to recover gross prices for historical invoice items.
func (c *Cache) PriceMap() map[string]float64 {
	out := make(map[string]float64, len(c.items))
	for _, item := range c.items {
		out[item.Name] = item.OriginalPrice
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
