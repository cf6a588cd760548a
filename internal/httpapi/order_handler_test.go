package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/auth"
	"storefront-api/internal/order"
)

func TestOrderHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	token := userToken(t, 3, auth.RoleUser)

	t.Run("WithItems", func(t *testing.T) {
		env.orders.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(items []order.ItemInput) bool {
			return len(items) == 2 && items[0].ProductID == 11 && items[0].Quantity == 2 &&
				items[0].PriceAtOrder == nil
		})).Return(&order.Order{
			ID:          1,
			CustomerID:  1,
			Status:      order.StatusPending,
			TotalAmount: decimal.RequireFromString("1210.00"),
		}, nil).Once()

		w := env.do(http.MethodPost, "/api/orders", token,
			`{"customer_id":1,"items":[{"product_id":11,"quantity":2},{"product_id":12,"quantity":3}]}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var got order.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, order.StatusPending, got.Status)
		assert.Equal(t, "1210", got.TotalAmount.String())
	})

	t.Run("EmptyOrder", func(t *testing.T) {
		env.orders.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(items []order.ItemInput) bool {
			return len(items) == 0
		})).Return(&order.Order{ID: 2, CustomerID: 1, Status: order.StatusPending}, nil).Once()

		w := env.do(http.MethodPost, "/api/orders", token, `{"customer_id":1}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		env.orders.On("Create", mock.Anything, int64(999), mock.Anything).
			Return(nil, order.ErrCustomerNotFound).Once()

		w := env.do(http.MethodPost, "/api/orders", token, `{"customer_id":999}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ZeroQuantityRejected", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/orders", token,
			`{"customer_id":1,"items":[{"product_id":11,"quantity":0}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DuplicateProductIsConflict", func(t *testing.T) {
		env.orders.On("Create", mock.Anything, int64(1), mock.Anything).
			Return(nil, order.ErrDuplicateProduct).Once()

		w := env.do(http.MethodPost, "/api/orders", token,
			`{"customer_id":1,"items":[{"product_id":11,"quantity":1},{"product_id":11,"quantity":2}]}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestOrderHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	token := userToken(t, 3, auth.RoleUser)

	t.Run("StatusChange", func(t *testing.T) {
		env.orders.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p order.UpdateParams) bool {
			return p.Status != nil && *p.Status == order.StatusShipped && p.Items == nil
		})).Return(&order.Order{ID: 1, Status: order.StatusShipped}, nil).Once()

		w := env.do(http.MethodPatch, "/api/orders/1", token, `{"status":"shipped"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		env.orders.On("Update", mock.Anything, int64(1), mock.Anything).
			Return(nil, order.ErrInvalidStatus).Once()

		w := env.do(http.MethodPatch, "/api/orders/1", token, `{"status":"teleported"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ItemReplacement", func(t *testing.T) {
		env.orders.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p order.UpdateParams) bool {
			return p.Items != nil && len(*p.Items) == 1 && (*p.Items)[0].ProductID == 20
		})).Return(&order.Order{ID: 1, Status: order.StatusPending}, nil).Once()

		w := env.do(http.MethodPut, "/api/orders/1", token,
			`{"items":[{"product_id":20,"quantity":4}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOrderHandler_Items(t *testing.T) {
	env := newTestEnv(t)
	token := userToken(t, 3, auth.RoleUser)

	t.Run("AddItem", func(t *testing.T) {
		price := decimal.RequireFromString("350.00")
		env.orders.On("AddItem", mock.Anything, int64(1), mock.MatchedBy(func(in order.ItemInput) bool {
			return in.ProductID == 12 && in.Quantity == 3 &&
				in.PriceAtOrder != nil && in.PriceAtOrder.Equal(price)
		})).Return(&order.OrderItem{ID: 7, OrderID: 1, ProductID: 12, Quantity: 3, PriceAtOrder: price}, nil).Once()

		w := env.do(http.MethodPost, "/api/orders/1/items", token,
			`{"product_id":12,"quantity":3,"price_at_order":"350.00"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("AddItemToMissingOrder", func(t *testing.T) {
		env.orders.On("AddItem", mock.Anything, int64(99), mock.Anything).
			Return(nil, order.ErrNotFound).Once()

		w := env.do(http.MethodPost, "/api/orders/99/items", token,
			`{"product_id":12,"quantity":3}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdateItemQuantity", func(t *testing.T) {
		env.orders.On("UpdateItem", mock.Anything, int64(1), int64(7), mock.MatchedBy(func(p order.ItemUpdateParams) bool {
			return p.Quantity != nil && *p.Quantity == 5 && p.PriceAtOrder == nil
		})).Return(&order.OrderItem{ID: 7, Quantity: 5}, nil).Once()

		w := env.do(http.MethodPatch, "/api/orders/1/items/7", token, `{"quantity":5}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DeleteItem", func(t *testing.T) {
		env.orders.On("DeleteItem", mock.Anything, int64(1), int64(7)).Return(nil).Once()

		w := env.do(http.MethodDelete, "/api/orders/1/items/7", token, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("DeleteMissingItem", func(t *testing.T) {
		env.orders.On("DeleteItem", mock.Anything, int64(1), int64(8)).
			Return(order.ErrItemNotFound).Once()

		w := env.do(http.MethodDelete, "/api/orders/1/items/8", token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
