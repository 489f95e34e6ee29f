package order

import (
	"context"
	"errors"

	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/Ultimator14/mini-pos/internal/order/dto"
)

// Expected conditions surfaced to the request layer. None of these is a
// storage failure; handlers map them to redirects or client errors.
var (
	ErrUnknownTable        = errors.New("unknown table")
	ErrUnknownBar          = errors.New("unknown bar")
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrEmptyOrder          = errors.New("order contains no products")
)

// UseCase is the command/query surface of the order subsystem: submission
// with duplicate suppression, the completion state machine and the read
// projections used by service pages.
type UseCase interface {
	SubmitOrder(ctx context.Context, input *dto.SubmitOrderInput) (*model.Order, error)

	CompleteOrder(ctx context.Context, orderID int64) error
	CompleteOrderForBar(ctx context.Context, orderID int64, bar string) error
	CompleteProduct(ctx context.Context, productID int64) error

	OpenOrders(ctx context.Context) ([]model.Order, error)
	OrdersByTable(ctx context.Context, table string) ([]model.Order, error)
	OpenProductLabelsByTable(ctx context.Context, table string) ([][]string, error)
	LastCompletedOrders(ctx context.Context) ([]model.Order, error)
	ActiveTables(ctx context.Context) ([]string, error)
}
