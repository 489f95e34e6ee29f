// Package catalog holds the static configuration the rest of the system
// treats as an immutable snapshot: table layout, the product catalog, the
// bar to category mapping and UI toggles. It is loaded once at startup and
// never mutated afterwards.
package catalog

import (
	"github.com/shopspring/decimal"
)

// DefaultBarName is the pseudo bar that sees every category.
const DefaultBarName = "default"

// Entry is one orderable product in the catalog. Entries are addressed by
// their 1-based index, which is also how order forms reference them.
type Entry struct {
	Name     string
	Price    decimal.Decimal
	Category string
}

// GridCell is one cell of the table layout grid. Anchor marks the top-left
// cell of a table; the remaining cells covered by the table are present but
// not anchors.
type GridCell struct {
	Anchor bool   `json:"anchor"`
	XLen   int    `json:"xlen"`
	YLen   int    `json:"ylen"`
	Name   string `json:"name"`
}

// Tables is the static table layout.
type Tables struct {
	Width  int
	Height int
	Names  []string
	Grid   [][]*GridCell
}

// UI carries display and policy toggles. Only AutoClose influences the
// completion engine; the rest is display-only.
type UI struct {
	AutoClose         bool
	ShowCompleted     int
	TimeoutWarn       int
	TimeoutCrit       int
	SplitCategories   bool
	ShowCategoryNames bool
	DefaultBar        bool
}

// Catalog is the full immutable configuration snapshot.
type Catalog struct {
	Tables   Tables
	Products map[int]Entry
	Bars     map[string][]string
	UI       UI
}

// HasTable reports whether name is a configured table.
func (c *Catalog) HasTable(name string) bool {
	for _, t := range c.Tables.Names {
		if t == name {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories of all catalog products, in
// first-seen index order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for i := 1; i <= len(c.Products); i++ {
		cat := c.Products[i].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// BarCategories resolves a bar name to its category set. The default bar
// resolves to all categories when enabled. The second return is false for
// unknown bars.
func (c *Catalog) BarCategories(name string) ([]string, bool) {
	if name == DefaultBarName && c.UI.DefaultBar {
		return c.Categories(), true
	}
	cats, ok := c.Bars[name]
	return cats, ok
}

// BarNames lists the selectable bars, including the default bar when
// enabled.
func (c *Catalog) BarNames() []string {
	var out []string
	for name := range c.Bars {
		out = append(out, name)
	}
	if c.UI.DefaultBar {
		out = append(out, DefaultBarName)
	}
	return out
}
