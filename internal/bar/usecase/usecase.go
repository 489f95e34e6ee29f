package usecase

import (
	"context"
	"fmt"

	"github.com/Ultimator14/mini-pos/internal/bar"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/model"
	"go.uber.org/zap"
)

type barUseCase struct {
	reader  bar.OrderReader
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewBarUseCase(reader bar.OrderReader, cat *catalog.Catalog, log *zap.Logger) bar.UseCase {
	return &barUseCase{
		reader:  reader,
		catalog: cat,
		logger:  log,
	}
}

// OpenOrdersForBar lists open orders with at least one pending product in
// the bar's categories.
func (uc *barUseCase) OpenOrdersForBar(ctx context.Context, name string) ([]model.Order, error) {
	return uc.openOrdersInState(ctx, name, bar.StateOpen)
}

// PartiallyCompletedOrdersForBar lists orders whose bar-scoped products are
// all done while the order itself is still open, i.e. another bar still has
// pending work.
func (uc *barUseCase) PartiallyCompletedOrdersForBar(ctx context.Context, name string) ([]model.Order, error) {
	return uc.openOrdersInState(ctx, name, bar.StatePartial)
}

func (uc *barUseCase) openOrdersInState(ctx context.Context, name string, state bar.State) ([]model.Order, error) {
	categories, ok := uc.catalog.BarCategories(name)
	if !ok {
		uc.logger.Error("projection for unknown bar", zap.String("bar", name))
		return nil, bar.ErrUnknownBar
	}

	orders, err := uc.reader.FindOpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("find open orders: %w", err)
	}

	var out []model.Order
	for _, o := range orders {
		if bar.Classify(&o, categories) == state {
			out = append(out, o)
		}
	}
	return out, nil
}

// LastCompletedOrdersForBar lists the most recently closed orders that
// contained at least one product in the bar's categories, newest first,
// bounded by the configured display count.
func (uc *barUseCase) LastCompletedOrdersForBar(ctx context.Context, name string) ([]model.Order, error) {
	categories, ok := uc.catalog.BarCategories(name)
	if !ok {
		uc.logger.Error("projection for unknown bar", zap.String("bar", name))
		return nil, bar.ErrUnknownBar
	}
	if uc.catalog.UI.ShowCompleted <= 0 {
		return nil, nil
	}
	return uc.reader.FindLastCompletedOrdersByCategories(ctx, categories, uc.catalog.UI.ShowCompleted)
}

func (uc *barUseCase) ActiveTables(ctx context.Context) ([]string, error) {
	return uc.reader.ActiveTables(ctx)
}
