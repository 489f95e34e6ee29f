package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/Ultimator14/mini-pos/internal/order"
	"github.com/Ultimator14/mini-pos/internal/order/dto"
	"go.uber.org/zap"
)

// maxAmount caps a single line item's amount at the largest integer a
// JavaScript client can represent without loss.
const maxAmount = 1<<53 - 1

type orderUseCase struct {
	repo    order.Repository
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewOrderUseCase(repo order.Repository, cat *catalog.Catalog, log *zap.Logger) order.UseCase {
	return &orderUseCase{
		repo:    repo,
		catalog: cat,
		logger:  log,
	}
}

// SubmitOrder validates and persists one order form submission. Items with
// non-positive amounts or unknown catalog indices are skipped; a submission
// whose nonce matches a currently open order is suppressed as a duplicate.
func (uc *orderUseCase) SubmitOrder(ctx context.Context, input *dto.SubmitOrderInput) (*model.Order, error) {
	if !uc.catalog.HasTable(input.Table) {
		uc.logger.Warn("order submitted for unknown table", zap.String("table", input.Table))
		return nil, order.ErrUnknownTable
	}

	dup, err := uc.isDuplicate(ctx, input.Nonce)
	if err != nil {
		return nil, fmt.Errorf("check nonce: %w", err)
	}
	if dup {
		uc.logger.Warn("caught duplicate order by nonce", zap.String("nonce", input.Nonce))
		return nil, order.ErrDuplicateSubmission
	}

	o := &model.Order{
		Nonce:     input.Nonce,
		Table:     input.Table,
		Waiter:    input.Waiter,
		CreatedAt: time.Now(),
	}

	for _, item := range input.Items {
		if item.Amount <= 0 {
			continue
		}

		entry, ok := uc.catalog.Products[item.Index]
		if !ok {
			uc.logger.Warn("order references unknown product index", zap.Int("index", item.Index))
			continue
		}

		amount := item.Amount
		if amount > maxAmount {
			uc.logger.Warn("order amount too large, clamping",
				zap.Int("index", item.Index), zap.Int64("amount", amount))
			amount = maxAmount
		}

		o.Products = append(o.Products, model.Product{
			Name:     entry.Name,
			Price:    entry.Price,
			Category: entry.Category,
			Amount:   amount,
			Comment:  item.Comment,
		})
	}

	if len(o.Products) == 0 {
		uc.logger.Warn("order does not contain any product, skipping",
			zap.String("table", input.Table))
		return nil, order.ErrEmptyOrder
	}

	if err := uc.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, p := range o.Products {
		uc.logger.Info("queued product",
			zap.Int64("product_id", p.ID), zap.Int64("order_id", o.ID))
	}
	uc.logger.Info("added order",
		zap.Int64("order_id", o.ID), zap.String("table", o.Table))

	return o, nil
}

// CompleteOrder marks every product of the order completed and closes the
// order. Completing an already closed order is a no-op; its timestamp never
// moves.
func (uc *orderUseCase) CompleteOrder(ctx context.Context, orderID int64) error {
	o, err := uc.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		uc.logger.Error("no matching order to complete", zap.Int64("order_id", orderID))
		return order.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return nil
	}

	return uc.closeOrder(ctx, orderID)
}

// CompleteOrderForBar marks completed only the products whose category
// belongs to the bar. The order closes globally only if afterwards no
// product of any category remains open; the check re-reads the store after
// the write.
func (uc *orderUseCase) CompleteOrderForBar(ctx context.Context, orderID int64, bar string) error {
	categories, ok := uc.catalog.BarCategories(bar)
	if !ok {
		uc.logger.Error("completion for unknown bar", zap.String("bar", bar))
		return order.ErrUnknownBar
	}

	o, err := uc.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		uc.logger.Error("no matching order to complete", zap.Int64("order_id", orderID))
		return order.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return nil
	}

	if err := uc.repo.MarkOrderProductsCompletedByCategories(ctx, orderID, categories); err != nil {
		return fmt.Errorf("complete products for bar: %w", err)
	}
	uc.logger.Info("completed order for bar",
		zap.Int64("order_id", orderID), zap.String("bar", bar))

	open, err := uc.repo.CountOpenProducts(ctx, orderID)
	if err != nil {
		return fmt.Errorf("count open products: %w", err)
	}
	if open > 0 {
		return nil
	}

	return uc.closeOrder(ctx, orderID)
}

// CompleteProduct marks a single product completed, idempotently. With
// auto_close enabled it closes the order once no product of the whole order
// remains open.
func (uc *orderUseCase) CompleteProduct(ctx context.Context, productID int64) error {
	p, err := uc.repo.FindProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		uc.logger.Error("no matching product found", zap.Int64("product_id", productID))
		return order.ErrProductNotFound
	}

	if !p.Completed {
		if err := uc.repo.MarkProductCompleted(ctx, productID); err != nil {
			return fmt.Errorf("complete product: %w", err)
		}
		uc.logger.Info("completed product", zap.Int64("product_id", productID))
	}

	if !uc.catalog.UI.AutoClose {
		return nil
	}

	open, err := uc.repo.CountOpenProducts(ctx, p.OrderID)
	if err != nil {
		return fmt.Errorf("count open products: %w", err)
	}
	if open > 0 {
		return nil
	}

	uc.logger.Info("last product completed, attempting auto_close",
		zap.Int64("order_id", p.OrderID))

	o, err := uc.repo.FindOrderByID(ctx, p.OrderID)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		uc.logger.Error("no matching order for product found", zap.Int64("order_id", p.OrderID))
		return order.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return nil
	}

	return uc.closeOrder(ctx, o.ID)
}

func (uc *orderUseCase) closeOrder(ctx context.Context, orderID int64) error {
	if err := uc.repo.MarkOrderProductsCompleted(ctx, orderID); err != nil {
		return fmt.Errorf("complete remaining products: %w", err)
	}
	if err := uc.repo.SetOrderCompleted(ctx, orderID, time.Now()); err != nil {
		return fmt.Errorf("set order completed: %w", err)
	}
	uc.logger.Info("completed order", zap.Int64("order_id", orderID))
	return nil
}

// isDuplicate reports whether the nonce matches a currently open order.
// Nonces of completed orders are not retained, so a nonce becomes reusable
// once its order closes. The check is best effort, two racing submissions
// with the same nonce can both pass it.
func (uc *orderUseCase) isDuplicate(ctx context.Context, nonce string) (bool, error) {
	nonces, err := uc.repo.FindOpenOrderNonces(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range nonces {
		if n == nonce {
			return true, nil
		}
	}
	return false, nil
}

func (uc *orderUseCase) OpenOrders(ctx context.Context) ([]model.Order, error) {
	return uc.repo.FindOpenOrders(ctx)
}

func (uc *orderUseCase) OrdersByTable(ctx context.Context, table string) ([]model.Order, error) {
	return uc.repo.FindOrdersByTable(ctx, table)
}

// OpenProductLabelsByTable returns, per open order of the table, the labels
// of its pending products. Service table pages show these as a reminder of
// what is already on the way.
func (uc *orderUseCase) OpenProductLabelsByTable(ctx context.Context, table string) ([][]string, error) {
	orders, err := uc.repo.FindOpenOrdersByTable(ctx, table)
	if err != nil {
		return nil, err
	}

	lists := make([][]string, 0, len(orders))
	for _, o := range orders {
		var labels []string
		for _, p := range o.OpenProducts() {
			labels = append(labels, p.Label())
		}
		lists = append(lists, labels)
	}
	return lists, nil
}

func (uc *orderUseCase) LastCompletedOrders(ctx context.Context) ([]model.Order, error) {
	if uc.catalog.UI.ShowCompleted <= 0 {
		return nil, nil
	}
	return uc.repo.FindLastCompletedOrders(ctx, uc.catalog.UI.ShowCompleted)
}

func (uc *orderUseCase) ActiveTables(ctx context.Context) ([]string, error) {
	return uc.repo.ActiveTables(ctx)
}
