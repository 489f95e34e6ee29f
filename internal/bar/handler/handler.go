package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Ultimator14/mini-pos/internal/bar"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/Ultimator14/mini-pos/internal/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BarHandler serves the kitchen/bar side: per-bar boards and completion
// commands.
type BarHandler struct {
	orders  order.UseCase
	bars    bar.UseCase
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewBarHandler(orders order.UseCase, bars bar.UseCase, cat *catalog.Catalog, log *zap.Logger) *BarHandler {
	return &BarHandler{
		orders:  orders,
		bars:    bars,
		catalog: cat,
		logger:  log,
	}
}

func (h *BarHandler) Register(r gin.IRouter) {
	r.GET("/bar", h.Selection)
	r.GET("/bar/:name", h.Board)
	r.POST("/bar/:name", h.Submit)
	r.GET("/fetch/bar/:name", h.Board)
}

// Selection lists the selectable bars. With a single bar it redirects
// straight to its board.
func (h *BarHandler) Selection(c *gin.Context) {
	names := h.catalog.BarNames()
	if len(names) == 1 {
		c.Redirect(http.StatusSeeOther, "/bar/"+names[0])
		return
	}

	bars := make(gin.H, len(names))
	for _, name := range names {
		cats, _ := h.catalog.BarCategories(name)
		bars[name] = cats
	}
	c.JSON(http.StatusOK, gin.H{"bars": bars})
}

// Board returns the bar's view of the world: orders with pending work for
// it, orders it finished that other bars still work on, and the last
// globally completed orders it was involved in.
func (h *BarHandler) Board(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	// the default bar owns every category, so it shows the global open and
	// completed lists and can never be partially done with an order
	if name == catalog.DefaultBarName && h.catalog.UI.DefaultBar {
		open, err := h.orders.OpenOrders(ctx)
		if err != nil {
			h.respondBoardError(c, name, err)
			return
		}
		completed, err := h.orders.LastCompletedOrders(ctx)
		if err != nil {
			h.respondBoardError(c, name, err)
			return
		}

		now := time.Now()
		c.JSON(http.StatusOK, gin.H{
			"bar":            name,
			"orders":         boardOrders(open, now, h.catalog),
			"partial_orders": []gin.H{},
			"completed":      boardOrders(completed, now, h.catalog),
			"show_completed": h.catalog.UI.ShowCompleted > 0,
		})
		return
	}

	open, err := h.bars.OpenOrdersForBar(ctx, name)
	if err != nil {
		h.respondBoardError(c, name, err)
		return
	}
	partial, err := h.bars.PartiallyCompletedOrdersForBar(ctx, name)
	if err != nil {
		h.respondBoardError(c, name, err)
		return
	}
	completed, err := h.bars.LastCompletedOrdersForBar(ctx, name)
	if err != nil {
		h.respondBoardError(c, name, err)
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"bar":            name,
		"orders":         boardOrders(open, now, h.catalog),
		"partial_orders": boardOrders(partial, now, h.catalog),
		"completed":      boardOrders(completed, now, h.catalog),
		"show_completed": h.catalog.UI.ShowCompleted > 0,
	})
}

func (h *BarHandler) respondBoardError(c *gin.Context, name string, err error) {
	if err == bar.ErrUnknownBar {
		c.JSON(http.StatusNotFound, gin.H{"error": "bar not found"})
		return
	}
	h.logger.Error("failed to load bar board", zap.String("bar", name), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bar board"})
}

// Submit handles a completion command posted from a bar board. The form
// carries either order-completed or product-completed; when both are
// present the order wins. Stale ids are logged and ignored, the client is
// redirected back to the board either way.
func (h *BarHandler) Submit(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	orderParam := c.PostForm("order-completed")
	productParam := c.PostForm("product-completed")

	if orderParam != "" && productParam != "" {
		h.logger.Info("completion with order and product data, using order")
	}

	switch {
	case orderParam != "":
		orderID, err := strconv.ParseInt(orderParam, 10, 64)
		if err != nil {
			h.logger.Error("order id not convertible to integer", zap.String("value", orderParam))
			break
		}
		h.completeOrder(ctx, orderID, name)

	case productParam != "":
		productID, err := strconv.ParseInt(productParam, 10, 64)
		if err != nil {
			h.logger.Error("product id not convertible to integer", zap.String("value", productParam))
			break
		}
		if err := h.orders.CompleteProduct(ctx, productID); err != nil {
			// not-found already logged by the usecase, nothing to surface
			h.logIfStorageError(err)
		}

	default:
		h.logger.Error("completion request without order or product id", zap.String("bar", name))
	}

	c.Redirect(http.StatusSeeOther, "/bar/"+name)
}

func (h *BarHandler) completeOrder(ctx context.Context, orderID int64, name string) {
	// the default bar closes the order wholesale, a named bar only its own
	// categories
	var err error
	if name == catalog.DefaultBarName {
		err = h.orders.CompleteOrder(ctx, orderID)
	} else {
		err = h.orders.CompleteOrderForBar(ctx, orderID, name)
	}
	if err != nil {
		h.logIfStorageError(err)
	}
}

func (h *BarHandler) logIfStorageError(err error) {
	switch err {
	case order.ErrOrderNotFound, order.ErrProductNotFound, order.ErrUnknownBar:
		// expected, already logged where detected
	default:
		h.logger.Error("completion failed", zap.Error(err))
	}
}

func boardOrders(orders []model.Order, now time.Time, cat *catalog.Catalog) []gin.H {
	warn := time.Duration(cat.UI.TimeoutWarn) * time.Second
	crit := time.Duration(cat.UI.TimeoutCrit) * time.Second

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		entry := gin.H{
			"order":        o,
			"active_since": o.ActiveSince(now),
			"timeout":      o.TimeoutClass(now, warn, crit),
		}
		if o.CompletedAt != nil {
			entry["completed_at"] = o.CompletedAt.Format("2006-01-02 15:04:05")
		}
		out = append(out, entry)
	}
	return out
}
