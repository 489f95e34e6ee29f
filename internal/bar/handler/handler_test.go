package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Ultimator14/mini-pos/internal/bar"
	"github.com/Ultimator14/mini-pos/internal/bar/handler"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/Ultimator14/mini-pos/internal/order/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	op  string
	id  int64
	bar string
}

// recordingOrders records which completion entry point was hit.
type recordingOrders struct {
	calls []call
}

func (f *recordingOrders) SubmitOrder(context.Context, *dto.SubmitOrderInput) (*model.Order, error) {
	return nil, nil
}

func (f *recordingOrders) CompleteOrder(_ context.Context, id int64) error {
	f.calls = append(f.calls, call{op: "order", id: id})
	return nil
}

func (f *recordingOrders) CompleteOrderForBar(_ context.Context, id int64, name string) error {
	f.calls = append(f.calls, call{op: "order-for-bar", id: id, bar: name})
	return nil
}

func (f *recordingOrders) CompleteProduct(_ context.Context, id int64) error {
	f.calls = append(f.calls, call{op: "product", id: id})
	return nil
}

func (f *recordingOrders) OpenOrders(context.Context) ([]model.Order, error)            { return nil, nil }
func (f *recordingOrders) OrdersByTable(context.Context, string) ([]model.Order, error) { return nil, nil }
func (f *recordingOrders) OpenProductLabelsByTable(context.Context, string) ([][]string, error) {
	return nil, nil
}
func (f *recordingOrders) LastCompletedOrders(context.Context) ([]model.Order, error) {
	return nil, nil
}
func (f *recordingOrders) ActiveTables(context.Context) ([]string, error) { return nil, nil }

type fakeBars struct{}

func (fakeBars) OpenOrdersForBar(_ context.Context, name string) ([]model.Order, error) {
	if name == "nope" {
		return nil, bar.ErrUnknownBar
	}
	return nil, nil
}

func (fakeBars) PartiallyCompletedOrdersForBar(context.Context, string) ([]model.Order, error) {
	return nil, nil
}

func (fakeBars) LastCompletedOrdersForBar(context.Context, string) ([]model.Order, error) {
	return nil, nil
}

func (fakeBars) ActiveTables(context.Context) ([]string, error) { return nil, nil }

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Tables: catalog.Tables{Names: []string{"A1"}},
		Products: map[int]catalog.Entry{
			1: {Name: "Beer", Price: decimal.NewFromFloat(3.5), Category: "drinks"},
		},
		Bars: map[string][]string{"drinks": {"drinks"}},
		UI:   catalog.UI{AutoClose: true, ShowCompleted: 5, DefaultBar: true},
	}
}

func newRouter(orders *recordingOrders) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.NewBarHandler(orders, fakeBars{}, testCatalog(), zap.NewNop()).Register(r)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitOrderCompletedForNamedBar(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	w := postForm(r, "/bar/drinks", url.Values{"order-completed": {"5"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/bar/drinks", w.Header().Get("Location"))
	require.Len(t, orders.calls, 1)
	assert.Equal(t, call{op: "order-for-bar", id: 5, bar: "drinks"}, orders.calls[0])
}

func TestSubmitOrderCompletedForDefaultBar(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	postForm(r, "/bar/default", url.Values{"order-completed": {"5"}})

	require.Len(t, orders.calls, 1)
	assert.Equal(t, call{op: "order", id: 5}, orders.calls[0])
}

func TestSubmitProductCompleted(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	postForm(r, "/bar/drinks", url.Values{"product-completed": {"7"}})

	require.Len(t, orders.calls, 1)
	assert.Equal(t, call{op: "product", id: 7}, orders.calls[0])
}

func TestSubmitOrderWinsOverProduct(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	postForm(r, "/bar/drinks", url.Values{
		"order-completed":   {"5"},
		"product-completed": {"7"},
	})

	require.Len(t, orders.calls, 1)
	assert.Equal(t, "order-for-bar", orders.calls[0].op)
}

func TestSubmitWithoutIDs(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	w := postForm(r, "/bar/drinks", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code, "missing data still redirects back")
	assert.Empty(t, orders.calls)
}

func TestSubmitMalformedID(t *testing.T) {
	orders := &recordingOrders{}
	r := newRouter(orders)

	w := postForm(r, "/bar/drinks", url.Values{"order-completed": {"five"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, orders.calls)
}

func TestBoardUnknownBar(t *testing.T) {
	r := newRouter(&recordingOrders{})

	req := httptest.NewRequest(http.MethodGet, "/bar/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectionIncludesDefault(t *testing.T) {
	r := newRouter(&recordingOrders{})

	req := httptest.NewRequest(http.MethodGet, "/bar", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default"`)
	assert.Contains(t, w.Body.String(), `"drinks"`)
}
