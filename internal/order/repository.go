package order

import (
	"context"
	"time"

	"github.com/Ultimator14/mini-pos/internal/model"
)

// Repository is the durable order/product store. Find methods return
// (nil, nil) for missing rows; orders returned by list methods carry their
// products. Mutations commit before returning.
type Repository interface {
	// CreateOrder inserts the order together with its products in a single
	// transaction and fills in the generated ids.
	CreateOrder(ctx context.Context, o *model.Order) error

	FindOrderByID(ctx context.Context, id int64) (*model.Order, error)
	FindProductByID(ctx context.Context, id int64) (*model.Product, error)

	FindOpenOrders(ctx context.Context) ([]model.Order, error)
	FindOpenOrdersByTable(ctx context.Context, table string) ([]model.Order, error)
	FindOrdersByTable(ctx context.Context, table string) ([]model.Order, error)
	FindOpenOrderNonces(ctx context.Context) ([]string, error)
	FindLastCompletedOrders(ctx context.Context, limit int) ([]model.Order, error)
	FindLastCompletedOrdersByCategories(ctx context.Context, categories []string, limit int) ([]model.Order, error)
	ActiveTables(ctx context.Context) ([]string, error)
	CountOpenProducts(ctx context.Context, orderID int64) (int, error)

	MarkProductCompleted(ctx context.Context, productID int64) error
	MarkOrderProductsCompleted(ctx context.Context, orderID int64) error
	MarkOrderProductsCompletedByCategories(ctx context.Context, orderID int64, categories []string) error
	SetOrderCompleted(ctx context.Context, orderID int64, at time.Time) error
}
