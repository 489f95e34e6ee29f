package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a single line item owned by exactly one order. Completed is a
// one-way false→true flag; products are never created after submission and
// never deleted.
type Product struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Category  string          `db:"category" json:"category"`
	Amount    int64           `db:"amount" json:"amount"`
	Comment   string          `db:"comment" json:"comment"`
	Completed bool            `db:"completed" json:"completed"`
}

// Label renders the product the way service pages list it, e.g.
// "2x Beer (no ice)".
func (p *Product) Label() string {
	if p.Comment != "" {
		return fmt.Sprintf("%dx %s (%s)", p.Amount, p.Name, p.Comment)
	}
	return fmt.Sprintf("%dx %s", p.Amount, p.Name)
}
