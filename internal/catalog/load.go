package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Product struct {
		Available []struct {
			Name     string  `yaml:"name"`
			Price    float64 `yaml:"price"`
			Category string  `yaml:"category"`
		} `yaml:"available"`
	} `yaml:"product"`
	Table struct {
		Size  []int `yaml:"size"`
		Names []struct {
			X    int    `yaml:"x"`
			Y    int    `yaml:"y"`
			XLen int    `yaml:"xlen"`
			YLen int    `yaml:"ylen"`
			Name string `yaml:"name"`
		} `yaml:"names"`
	} `yaml:"table"`
	Bar map[string][]string `yaml:"bar"`
	UI  *struct {
		AutoClose         *bool `yaml:"auto_close"`
		ShowCompleted     *int  `yaml:"show_completed"`
		Timeout           []int `yaml:"timeout"`
		SplitCategories   *bool `yaml:"split_categories"`
		ShowCategoryNames *bool `yaml:"show_category_names"`
		DefaultBar        *bool `yaml:"default_bar"`
	} `yaml:"ui"`
}

// Load reads and validates the catalog file. Any structural problem is
// returned as an error; the process is expected to refuse startup on it.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("broken catalog file: %w", err)
	}

	c := &Catalog{
		Products: make(map[int]Entry),
		Bars:     make(map[string][]string),
		UI: UI{
			AutoClose:     true,
			ShowCompleted: 5,
			TimeoutWarn:   120,
			TimeoutCrit:   600,
			DefaultBar:    true,
		},
	}

	if err := c.setProducts(&f); err != nil {
		return nil, err
	}
	if err := c.setTables(&f); err != nil {
		return nil, err
	}
	c.setUI(&f)
	if err := c.setBars(&f); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) setProducts(f *fileFormat) error {
	if len(f.Product.Available) == 0 {
		return fmt.Errorf("product->available missing or empty in catalog file")
	}
	for i, p := range f.Product.Available {
		if p.Name == "" {
			return fmt.Errorf("product %d has no name", i+1)
		}
		if p.Price < 0 {
			return fmt.Errorf("product %q has negative price", p.Name)
		}
		if p.Category == "" {
			return fmt.Errorf("product %q has no category", p.Name)
		}
		c.Products[i+1] = Entry{
			Name:     p.Name,
			Price:    decimal.NewFromFloat(p.Price),
			Category: p.Category,
		}
	}
	return nil
}

func (c *Catalog) setTables(f *fileFormat) error {
	if len(f.Table.Size) != 2 {
		return fmt.Errorf("table->size must be exactly of length 2")
	}
	if len(f.Table.Names) == 0 {
		return fmt.Errorf("table->names missing or empty in catalog file")
	}

	c.Tables.Width = f.Table.Size[0]
	c.Tables.Height = f.Table.Size[1]

	grid := make([][]*GridCell, c.Tables.Height)
	for y := range grid {
		grid[y] = make([]*GridCell, c.Tables.Width)
	}

	seen := make(map[string]bool)
	for _, t := range f.Table.Names {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name %q, table names must be unique", t.Name)
		}
		seen[t.Name] = true
		c.Tables.Names = append(c.Tables.Names, t.Name)

		if t.XLen < 1 || t.YLen < 1 {
			return fmt.Errorf("table %q can't have length < 1", t.Name)
		}
		if t.X+t.XLen > c.Tables.Width || t.Y+t.YLen > c.Tables.Height {
			return fmt.Errorf("table %q can't be placed outside the grid", t.Name)
		}

		for y := t.Y; y < t.Y+t.YLen; y++ {
			for x := t.X; x < t.X+t.XLen; x++ {
				if grid[y][x] != nil {
					return fmt.Errorf("duplicate table position %d/%d", x, y)
				}
				grid[y][x] = &GridCell{}
			}
		}
		grid[t.Y][t.X] = &GridCell{Anchor: true, XLen: t.XLen, YLen: t.YLen, Name: t.Name}
	}

	c.Tables.Grid = grid
	return nil
}

func (c *Catalog) setUI(f *fileFormat) {
	if f.UI == nil {
		return
	}
	if f.UI.AutoClose != nil {
		c.UI.AutoClose = *f.UI.AutoClose
	}
	if f.UI.ShowCompleted != nil {
		c.UI.ShowCompleted = *f.UI.ShowCompleted // zero = don't show
	}
	if len(f.UI.Timeout) == 2 {
		c.UI.TimeoutWarn = f.UI.Timeout[0]
		c.UI.TimeoutCrit = f.UI.Timeout[1]
	}
	if f.UI.SplitCategories != nil {
		c.UI.SplitCategories = *f.UI.SplitCategories
	}
	if f.UI.ShowCategoryNames != nil {
		c.UI.ShowCategoryNames = *f.UI.ShowCategoryNames
	}
	if f.UI.DefaultBar != nil {
		c.UI.DefaultBar = *f.UI.DefaultBar
	}
}

func (c *Catalog) setBars(f *fileFormat) error {
	known := make(map[string]bool)
	for _, cat := range c.Categories() {
		known[cat] = true
	}

	for name, cats := range f.Bar {
		if name == DefaultBarName {
			return fmt.Errorf("bar name %q is reserved", DefaultBarName)
		}
		if len(cats) == 0 {
			return fmt.Errorf("bar %q has no categories", name)
		}
		for _, cat := range cats {
			if !known[cat] {
				return fmt.Errorf("bar %q references unknown category %q", name, cat)
			}
		}
		c.Bars[name] = cats
	}
	return nil
}
