package bar

import (
	"testing"
	"time"

	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/stretchr/testify/assert"
)

func order(completedAt *time.Time, products ...model.Product) *model.Order {
	return &model.Order{ID: 1, Table: "A1", CompletedAt: completedAt, Products: products}
}

func product(category string, completed bool) model.Product {
	return model.Product{Category: category, Completed: completed, Amount: 1}
}

func TestClassify(t *testing.T) {
	now := time.Now()
	drinks := []string{"drinks"}

	tests := []struct {
		name  string
		order *model.Order
		want  State
	}{
		{
			name:  "no products in bar categories",
			order: order(nil, product("food", false)),
			want:  StateNone,
		},
		{
			name:  "pending bar product",
			order: order(nil, product("drinks", false), product("food", false)),
			want:  StateOpen,
		},
		{
			name:  "some bar products pending",
			order: order(nil, product("drinks", true), product("drinks", false)),
			want:  StateOpen,
		},
		{
			name:  "bar done but order still open",
			order: order(nil, product("drinks", true), product("food", false)),
			want:  StatePartial,
		},
		{
			name:  "bar done and order globally completed",
			order: order(&now, product("drinks", true), product("food", true)),
			want:  StateCompleted,
		},
		{
			name:  "only bar products, all done, order closed",
			order: order(&now, product("drinks", true)),
			want:  StateCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.order, drinks))
		})
	}
}

func TestClassifyMultipleCategories(t *testing.T) {
	categories := []string{"drinks", "snacks"}

	o := order(nil,
		product("drinks", true),
		product("snacks", false),
		product("food", true),
	)
	assert.Equal(t, StateOpen, Classify(o, categories))

	o.Products[1].Completed = true
	assert.Equal(t, StatePartial, Classify(o, categories))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "partial", StatePartial.String())
	assert.Equal(t, "completed", StateCompleted.String())
}
