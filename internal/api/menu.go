package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/paintbistro/posterm/internal/catalog"
)

// wireID tolerates the id shapes the backend has shipped over time:
// a plain string, a bare number, or an extended-JSON object id.
type wireID string

func (w *wireID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		*w = wireID(n.String())
		return nil
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil && oid.OID != "" {
		*w = wireID(oid.OID)
		return nil
	}
	return fmt.Errorf("unsupported id shape: %s", raw)
}

// menuWire is the raw menu record. Several fields are optional on older
// records, so defaults are applied in transform rather than trusted from
// the wire.
type menuWire struct {
	MongoID       wireID   `json:"_id"`
	ID            wireID   `json:"id"`
	Name          string   `json:"name"`
	OriginalPrice float64  `json:"originalPrice"`
	Price         float64  `json:"price"`
	PromoPrice    float64  `json:"promoPrice"`
	IsPromo       bool     `json:"isPromo"`
	IsActive      *bool    `json:"isActive"`
	Category      string   `json:"category"`
	Categories    []string `json:"categories"`
	Type          string   `json:"type"`
	Badge         string   `json:"badge"`
}

// transform normalizes one wire record: id from _id falling back to id and
// finally to a generated one, price from originalPrice falling back to the
// legacy price field, category defaulting to Uncategorized, and items
// active unless explicitly disabled.
func (m menuWire) transform() catalog.MenuItem {
	id := string(m.MongoID)
	if id == "" {
		id = string(m.ID)
	}
	if id == "" {
		id = uuid.NewString()
	}

	price := m.OriginalPrice
	if price == 0 {
		price = m.Price
	}

	category := m.Category
	if category == "" {
		category = "Uncategorized"
	}

	return catalog.MenuItem{
		ID:            id,
		Name:          m.Name,
		OriginalPrice: price,
		PromoPrice:    m.PromoPrice,
		IsPromo:       m.IsPromo,
		IsActive:      m.IsActive == nil || *m.IsActive,
		Category:      category,
		Categories:    m.Categories,
		Type:          m.Type,
		Badge:         m.Badge,
	}
}

func transformMenu(records []menuWire) []catalog.MenuItem {
	items := make([]catalog.MenuItem, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.transform())
	}
	return items
}

// Menu fetches and normalizes the full menu.
func (c *Client) Menu(ctx context.Context) ([]catalog.MenuItem, error) {
	var records []menuWire
	if err := c.do(ctx, http.MethodGet, "/menu", nil, &records, nil); err != nil {
		return nil, err
	}
	return transformMenu(records), nil
}

// MenuByCategory fetches the menu filtered server-side by category.
func (c *Client) MenuByCategory(ctx context.Context, category string) ([]catalog.MenuItem, error) {
	var records []menuWire
	path := "/menu/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, &records, nil); err != nil {
		return nil, err
	}
	return transformMenu(records), nil
}

// categoryWire tolerates both shapes the categories endpoint returns:
// plain strings or objects with a name field.
type categoryWire string

func (w *categoryWire) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*w = categoryWire(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		*w = categoryWire(obj.Name)
		return nil
	}
	return fmt.Errorf("unsupported category shape: %s", raw)
}

// Categories fetches the server-managed category list.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var records []categoryWire
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &records, nil); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if rec != "" {
			out = append(out, string(rec))
		}
	}
	return out, nil
}
