package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proudshop/models"
	"proudshop/services"
	"proudshop/store"
)

type stubProductStore struct {
	items map[int]models.Product
}

func (s *stubProductStore) List(ctx context.Context, _ store.ProductFilter) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range s.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *stubProductStore) Search(ctx context.Context, _ store.SearchFilter) ([]models.Product, int, error) {
	return s.List(ctx, store.ProductFilter{})
}

func (s *stubProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductStore) FindByIDs(ctx context.Context, ids []int) (map[int]models.Product, error) {
	found := map[int]models.Product{}
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (s *stubProductStore) Create(ctx context.Context, p *models.Product) error { return nil }
func (s *stubProductStore) Update(ctx context.Context, p *models.Product) error { return nil }
func (s *stubProductStore) Delete(ctx context.Context, id int) error            { return nil }

type stubOrderStore struct {
	products *stubProductStore
	orders   map[int]*models.Order
	nextID   int
}

func (s *stubOrderStore) Create(ctx context.Context, o *models.Order) error {
	for _, item := range o.Items {
		p := s.products.items[item.ProductID]
		if p.Stock < item.Quantity {
			return store.InsufficientStockError{ProductID: item.ProductID}
		}
		p.Stock -= item.Quantity
		s.products.items[item.ProductID] = p
	}
	o.ID = s.nextID
	s.nextID++
	o.CreatedAt = time.Now()
	stored := *o
	s.orders[o.ID] = &stored
	return nil
}

func (s *stubOrderStore) List(ctx context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *stubOrderStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubOrderStore) UpdateStatus(ctx context.Context, id int, status string) error {
	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to []string, subject, html string) bool { return true }

func orderRouter(t *testing.T) (*gin.Engine, *stubOrderStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := &stubProductStore{items: map[int]models.Product{
		1: {ID: 1, Title: "Laptop", PriceEur: decimal.RequireFromString("899.99"), Stock: 10},
	}}
	orders := &stubOrderStore{products: products, orders: map[int]*models.Order{}, nextID: 1}
	svc := services.NewOrderService(orders, products, noopMailer{}, nil, time.Minute)
	ctrl := NewOrderController(svc)

	r := gin.New()
	r.POST("/orders/", ctrl.Create)
	r.GET("/orders/", ctrl.List)
	r.GET("/orders/:id", ctrl.Get)
	r.GET("/orders/by-number/:orderNumber", ctrl.GetByNumber)
	r.PUT("/orders/:id/status", ctrl.UpdateStatus)
	r.DELETE("/orders/:id", ctrl.Delete)
	return r, orders
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, _ := orderRouter(t)

	w := doJSON(t, r, http.MethodPost, "/orders/",
		`{"items":[{"product_id":1,"quantity":2}],"shipping_email":"blerina@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.OrderNumber, 12)
	assert.True(t, order.TotalEur.Equal(decimal.RequireFromString("1799.98")))
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	r, _ := orderRouter(t)

	t.Run("empty items", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No items")
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":99,"quantity":1}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid product")
	})

	t.Run("insufficient stock", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":1,"quantity":50}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Insufficient stock for product 1")
	})

	t.Run("zero quantity rejected by binding", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":1,"quantity":0}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetOrderByNumberQuirk(t *testing.T) {
	r, _ := orderRouter(t)

	w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":1,"quantity":1}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	t.Run("hit", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/orders/by-number/"+order.OrderNumber, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), order.OrderNumber)
	})

	// A miss is still a 200, with an error body.
	t.Run("miss", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/orders/by-number/doesnotexist", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	r, _ := orderRouter(t)

	w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":1,"quantity":1}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	t.Run("valid status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/orders/1/status", `{"status":"SHIPPED"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "SHIPPED")
	})

	t.Run("unknown status value", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/orders/1/status", `{"status":"TELEPORTED"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid status")
	})

	t.Run("missing order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/orders/99/status", `{"status":"SHIPPED"}`)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteOrderEndpoint(t *testing.T) {
	r, orders := orderRouter(t)

	w := doJSON(t, r, http.MethodPost, "/orders/", `{"items":[{"product_id":1,"quantity":1}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/orders/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Empty(t, orders.orders)

	w = doJSON(t, r, http.MethodDelete, "/orders/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
