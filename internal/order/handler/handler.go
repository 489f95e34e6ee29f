package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Ultimator14/mini-pos/internal/auth"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/order"
	"github.com/Ultimator14/mini-pos/internal/order/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceHandler serves the waitstaff side: table overview, order entry and
// submission, per-table history.
type ServiceHandler struct {
	uc      order.UseCase
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewServiceHandler(uc order.UseCase, cat *catalog.Catalog, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		uc:      uc,
		catalog: cat,
		logger:  log,
	}
}

func (h *ServiceHandler) Register(r gin.IRouter) {
	r.GET("/service", h.Overview)
	r.GET("/service/login", h.Login)
	r.POST("/service/login", h.LoginSubmit)
	r.GET("/service/:table", h.Table)
	r.POST("/service/:table", h.TableSubmit)
	r.GET("/service/:table/history", h.TableHistory)
	r.GET("/fetch/service", h.FetchActiveTables)
}

// Overview lists the table grid and which tables currently have open
// orders. With a single configured table it redirects straight to it.
func (h *ServiceHandler) Overview(c *gin.Context) {
	tables := h.catalog.Tables
	if len(tables.Names) == 1 {
		c.Redirect(http.StatusSeeOther, "/service/"+tables.Names[0])
		return
	}

	active, err := h.uc.ActiveTables(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load active tables", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load active tables"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"size":          []int{tables.Width, tables.Height},
		"grid":          tables.Grid,
		"active_tables": active,
	})
}

func (h *ServiceHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"waiter": auth.Waiter(c)})
}

func (h *ServiceHandler) LoginSubmit(c *gin.Context) {
	waiter := c.PostForm("waiter")
	if waiter == "" {
		h.logger.Error("login submitted without waiter name")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing waiter name"})
		return
	}

	auth.SetWaiter(c, waiter)
	c.JSON(http.StatusOK, gin.H{"waiter": waiter})
}

// Table renders the order entry data for one table: the catalog, the still
// open products of the table and a fresh nonce for duplicate suppression.
func (h *ServiceHandler) Table(c *gin.Context) {
	table := c.Param("table")
	if !h.catalog.HasTable(table) {
		h.logger.Error("request for unknown table", zap.String("table", table))
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid table"})
		return
	}

	openLists, err := h.uc.OpenProductLabelsByTable(c.Request.Context(), table)
	if err != nil {
		h.logger.Error("failed to load open products", zap.String("table", table), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load open products"})
		return
	}

	products := make([]gin.H, 0, len(h.catalog.Products))
	for i := 1; i <= len(h.catalog.Products); i++ {
		entry := h.catalog.Products[i]
		products = append(products, gin.H{
			"index":    i,
			"name":     entry.Name,
			"price":    entry.Price,
			"category": entry.Category,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"table":               table,
		"products":            products,
		"open_product_lists":  openLists,
		"split_categories":    h.catalog.UI.SplitCategories,
		"show_category_names": h.catalog.UI.ShowCategoryNames,
		"nonce":               uuid.NewString(),
	})
}

// TableSubmit turns one submitted order form into an order. Per-item fields
// that fail to parse are skipped; a missing nonce rejects the whole
// submission; duplicate and empty submissions redirect without creating
// anything.
func (h *ServiceHandler) TableSubmit(c *gin.Context) {
	table := c.Param("table")

	nonce := c.PostForm("nonce")
	if nonce == "" {
		h.logger.Error("order submitted without nonce", zap.String("table", table))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing nonce"})
		return
	}

	input := &dto.SubmitOrderInput{
		Table:  table,
		Waiter: auth.Waiter(c),
		Nonce:  nonce,
	}

	for i := 1; i <= len(h.catalog.Products); i++ {
		amountParam := c.PostForm(fmt.Sprintf("amount-%d", i))
		if amountParam == "" {
			h.logger.Warn("order form missing amount field, skipping", zap.Int("index", i))
			continue
		}

		amount, err := strconv.ParseInt(amountParam, 10, 64)
		if err != nil {
			h.logger.Warn("order form amount not convertible to integer, skipping",
				zap.Int("index", i), zap.String("amount", amountParam))
			continue
		}

		input.Items = append(input.Items, dto.SubmitItem{
			Index:   i,
			Amount:  amount,
			Comment: c.PostForm(fmt.Sprintf("comment-%d", i)),
		})
	}

	o, err := h.uc.SubmitOrder(c.Request.Context(), input)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, o)
	case errors.Is(err, order.ErrDuplicateSubmission), errors.Is(err, order.ErrEmptyOrder):
		// legitimate resubmissions and all-zero forms are not user errors
		c.Redirect(http.StatusSeeOther, "/service")
	case errors.Is(err, order.ErrUnknownTable):
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid table"})
	default:
		h.logger.Error("failed to submit order", zap.String("table", table), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit order"})
	}
}

// TableHistory lists all orders of a table, open and completed.
func (h *ServiceHandler) TableHistory(c *gin.Context) {
	table := c.Param("table")
	if !h.catalog.HasTable(table) {
		h.logger.Error("history request for unknown table", zap.String("table", table))
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid table"})
		return
	}

	orders, err := h.uc.OrdersByTable(c.Request.Context(), table)
	if err != nil {
		h.logger.Error("failed to load table history", zap.String("table", table), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load table history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"table": table, "orders": orders})
}

// FetchActiveTables is the polling endpoint behind the service overview.
func (h *ServiceHandler) FetchActiveTables(c *gin.Context) {
	active, err := h.uc.ActiveTables(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load active tables", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load active tables"})
		return
	}
	c.JSON(http.StatusOK, active)
}
