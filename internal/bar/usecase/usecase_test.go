package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ultimator14/mini-pos/internal/bar"
	"github.com/Ultimator14/mini-pos/internal/bar/usecase"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves canned orders to the partition view.
type fakeReader struct {
	open      []model.Order
	completed []model.Order
}

func (f *fakeReader) FindOpenOrders(context.Context) ([]model.Order, error) {
	return f.open, nil
}

func (f *fakeReader) FindLastCompletedOrdersByCategories(_ context.Context, categories []string, limit int) ([]model.Order, error) {
	inSet := make(map[string]bool)
	for _, c := range categories {
		inSet[c] = true
	}
	var out []model.Order
	for _, o := range f.completed {
		for _, p := range o.Products {
			if inSet[p.Category] {
				out = append(out, o)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReader) ActiveTables(context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var tables []string
	for _, o := range f.open {
		if !seen[o.Table] {
			seen[o.Table] = true
			tables = append(tables, o.Table)
		}
	}
	return tables, nil
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Tables: catalog.Tables{Names: []string{"A1"}},
		Products: map[int]catalog.Entry{
			1: {Name: "Beer", Price: decimal.NewFromFloat(3.5), Category: "drinks"},
			2: {Name: "Soup", Price: decimal.NewFromFloat(4.0), Category: "food"},
		},
		Bars: map[string][]string{
			"drinks": {"drinks"},
			"food":   {"food"},
		},
		UI: catalog.UI{AutoClose: true, ShowCompleted: 5, DefaultBar: true},
	}
}

func mixedOrder(id int64, beerDone, soupDone bool, completedAt *time.Time) model.Order {
	return model.Order{
		ID:          id,
		Table:       "A1",
		CreatedAt:   time.Now(),
		CompletedAt: completedAt,
		Products: []model.Product{
			{ID: id*10 + 1, OrderID: id, Name: "Beer", Category: "drinks", Amount: 2, Completed: beerDone},
			{ID: id*10 + 2, OrderID: id, Name: "Soup", Category: "food", Amount: 1, Completed: soupDone},
		},
	}
}

func orderIDs(orders []model.Order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// Mirrors the beer/soup flow: a fresh mixed order is open for both bars;
// after the drinks side finishes it is partial for drinks and still open
// for food; once closed it shows up in both bars' completed lists.
func TestBarPartitionScenario(t *testing.T) {
	reader := &fakeReader{}
	uc := usecase.NewBarUseCase(reader, testCatalog(), zap.NewNop())
	ctx := context.Background()

	// stage 1: freshly submitted
	reader.open = []model.Order{mixedOrder(1, false, false, nil)}

	open, err := uc.OpenOrdersForBar(ctx, "drinks")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderIDs(open))

	open, err = uc.OpenOrdersForBar(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderIDs(open))

	// stage 2: beer completed
	reader.open = []model.Order{mixedOrder(1, true, false, nil)}

	open, err = uc.OpenOrdersForBar(ctx, "drinks")
	require.NoError(t, err)
	assert.Empty(t, open, "drinks is done with this order")

	partial, err := uc.PartiallyCompletedOrdersForBar(ctx, "drinks")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderIDs(partial))

	open, err = uc.OpenOrdersForBar(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orderIDs(open), "food still has pending work")

	completed, err := uc.LastCompletedOrdersForBar(ctx, "food")
	require.NoError(t, err)
	assert.Empty(t, completed, "order is not globally completed yet")

	// stage 3: soup completed, order globally closed
	now := time.Now()
	reader.open = nil
	reader.completed = []model.Order{mixedOrder(1, true, true, &now)}

	for _, name := range []string{"drinks", "food", catalog.DefaultBarName} {
		completed, err = uc.LastCompletedOrdersForBar(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, orderIDs(completed), "bar %s", name)
	}
}

func TestBarExclusivity(t *testing.T) {
	// an order touching only drinks never appears on the food board
	reader := &fakeReader{open: []model.Order{{
		ID:    7,
		Table: "A1",
		Products: []model.Product{
			{ID: 71, OrderID: 7, Name: "Beer", Category: "drinks", Amount: 1},
		},
	}}}
	uc := usecase.NewBarUseCase(reader, testCatalog(), zap.NewNop())
	ctx := context.Background()

	open, err := uc.OpenOrdersForBar(ctx, "food")
	require.NoError(t, err)
	assert.Empty(t, open)

	partial, err := uc.PartiallyCompletedOrdersForBar(ctx, "food")
	require.NoError(t, err)
	assert.Empty(t, partial, "uninvolved bars must not see the order as partial")

	open, err = uc.OpenOrdersForBar(ctx, "drinks")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, orderIDs(open))
}

func TestDefaultBarSeesEverything(t *testing.T) {
	reader := &fakeReader{open: []model.Order{
		mixedOrder(1, false, false, nil),
		mixedOrder(2, true, false, nil),
	}}
	uc := usecase.NewBarUseCase(reader, testCatalog(), zap.NewNop())
	ctx := context.Background()

	open, err := uc.OpenOrdersForBar(ctx, catalog.DefaultBarName)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, orderIDs(open))
}

func TestUnknownBar(t *testing.T) {
	uc := usecase.NewBarUseCase(&fakeReader{}, testCatalog(), zap.NewNop())

	_, err := uc.OpenOrdersForBar(context.Background(), "nope")
	assert.ErrorIs(t, err, bar.ErrUnknownBar)

	_, err = uc.LastCompletedOrdersForBar(context.Background(), "nope")
	assert.ErrorIs(t, err, bar.ErrUnknownBar)
}

func TestShowCompletedZeroHidesHistory(t *testing.T) {
	now := time.Now()
	reader := &fakeReader{completed: []model.Order{mixedOrder(1, true, true, &now)}}
	cat := testCatalog()
	cat.UI.ShowCompleted = 0
	uc := usecase.NewBarUseCase(reader, cat, zap.NewNop())

	completed, err := uc.LastCompletedOrdersForBar(context.Background(), "drinks")
	require.NoError(t, err)
	assert.Empty(t, completed)
}
