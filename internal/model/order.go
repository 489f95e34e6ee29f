package model

import (
	"fmt"
	"time"
)

// Order is one table's visit-scoped group of requested products. It is open
// until CompletedAt is set; that transition is one-way.
type Order struct {
	ID          int64      `db:"id" json:"id"`
	Nonce       string     `db:"nonce" json:"-"`
	Table       string     `db:"table_name" json:"table"`
	Waiter      string     `db:"waiter" json:"waiter"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	Products    []Product  `db:"-" json:"products"` // loaded separately, not a column
}

func (o *Order) IsOpen() bool {
	return o.CompletedAt == nil
}

// AllProductsCompleted reports whether every product of the order is
// completed, across all categories.
func (o *Order) AllProductsCompleted() bool {
	for _, p := range o.Products {
		if !p.Completed {
			return false
		}
	}
	return true
}

// OpenProducts returns the order's not-yet-completed products.
func (o *Order) OpenProducts() []Product {
	var open []Product
	for _, p := range o.Products {
		if !p.Completed {
			open = append(open, p)
		}
	}
	return open
}

// ActiveSince renders how long the order has been open as "mm:ss", aligned
// to 5 second steps so pages refreshed by polling don't need client timers.
// Orders older than an hour render as ">60min".
func (o *Order) ActiveSince(now time.Time) string {
	diff := now.Sub(o.CreatedAt)
	if diff > time.Hour {
		return ">60min"
	}

	aligned := int(diff.Seconds()) / 5 * 5
	return fmt.Sprintf("%02d:%02d", aligned/60, aligned%60)
}

// TimeoutClass buckets the order's age for display-only staleness coloring.
func (o *Order) TimeoutClass(now time.Time, warn, crit time.Duration) string {
	diff := now.Sub(o.CreatedAt)
	switch {
	case diff > crit:
		return "timeout_crit"
	case diff > warn:
		return "timeout_warn"
	default:
		return "timeout_ok"
	}
}
