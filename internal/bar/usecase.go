package bar

import (
	"context"
	"errors"

	"github.com/Ultimator14/mini-pos/internal/model"
)

// ErrUnknownBar is returned for projections over a bar the catalog does not
// know.
var ErrUnknownBar = errors.New("unknown bar")

// State is an order's derived completion state from one bar's point of
// view. It is computed from product completion flags, never stored.
type State int

const (
	// StateNone: the order has no products in the bar's categories.
	StateNone State = iota
	// StateOpen: at least one of the bar's products is still pending.
	StateOpen
	// StatePartial: all of the bar's products are done but the order is
	// still open overall, another bar has pending work.
	StatePartial
	// StateCompleted: all of the bar's products are done and the order is
	// globally completed.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StatePartial:
		return "partial"
	case StateCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Classify computes an order's per-bar state over the products whose
// category is in the bar's category set. Global completion requires all
// categories, not just the bar's own, which is why StatePartial exists.
func Classify(o *model.Order, categories []string) State {
	inBar := make(map[string]bool, len(categories))
	for _, c := range categories {
		inBar[c] = true
	}

	hasAny := false
	for _, p := range o.Products {
		if !inBar[p.Category] {
			continue
		}
		hasAny = true
		if !p.Completed {
			return StateOpen
		}
	}
	if !hasAny {
		return StateNone
	}
	if o.IsOpen() {
		return StatePartial
	}
	return StateCompleted
}

// OrderReader is the read access the partition view needs from the order
// store.
type OrderReader interface {
	FindOpenOrders(ctx context.Context) ([]model.Order, error)
	FindLastCompletedOrdersByCategories(ctx context.Context, categories []string, limit int) ([]model.Order, error)
	ActiveTables(ctx context.Context) ([]string, error)
}

// UseCase provides the read-only projections behind bar display pages.
type UseCase interface {
	OpenOrdersForBar(ctx context.Context, bar string) ([]model.Order, error)
	PartiallyCompletedOrdersForBar(ctx context.Context, bar string) ([]model.Order, error)
	LastCompletedOrdersForBar(ctx context.Context, bar string) ([]model.Order, error)
	ActiveTables(ctx context.Context) ([]string, error)
}
