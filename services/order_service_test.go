package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proudshop/models"
	"proudshop/store"
)

type fakeProductStore struct {
	items map[int]models.Product
}

func (f *fakeProductStore) List(ctx context.Context, _ store.ProductFilter) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeProductStore) Search(ctx context.Context, _ store.SearchFilter) ([]models.Product, int, error) {
	return f.List(ctx, store.ProductFilter{})
}

func (f *fakeProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductStore) FindByIDs(ctx context.Context, ids []int) (map[int]models.Product, error) {
	found := make(map[int]models.Product)
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (f *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id int) error {
	delete(f.items, id)
	return nil
}

// fakeOrderStore mimics the transactional semantics of the SQL store: the
// stock decrement is all-or-nothing across the order's items.
type fakeOrderStore struct {
	products *fakeProductStore
	orders   map[int]*models.Order
	nextID   int
}

func newFakeOrderStore(products *fakeProductStore) *fakeOrderStore {
	return &fakeOrderStore{products: products, orders: map[int]*models.Order{}, nextID: 1}
}

func (f *fakeOrderStore) Create(ctx context.Context, o *models.Order) error {
	needed := map[int]int{}
	for _, item := range o.Items {
		needed[item.ProductID] += item.Quantity
	}
	for id, qty := range needed {
		p, ok := f.products.items[id]
		if !ok {
			return store.ErrNotFound
		}
		if p.Stock < qty {
			return store.InsufficientStockError{ProductID: id}
		}
	}
	for id, qty := range needed {
		p := f.products.items[id]
		p.Stock -= qty
		f.products.items[id] = p
	}

	o.ID = f.nextID
	f.nextID++
	o.CreatedAt = time.Now()
	stored := *o
	stored.Items = append([]models.OrderItem(nil), o.Items...)
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeOrderStore) List(ctx context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id int, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type sentMail struct {
	to      []string
	subject string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (f *fakeMailer) Send(ctx context.Context, to []string, subject, html string) bool {
	if f.fail {
		return false
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return true
}

type publishedEvent struct {
	orderID   int
	priority  int
	eventType string
}

type fakePublisher struct {
	events  []publishedEvent
	delayed []publishedEvent
}

func (f *fakePublisher) PublishOrderEvent(orderID, priority int, eventType string) error {
	f.events = append(f.events, publishedEvent{orderID: orderID, priority: priority, eventType: eventType})
	return nil
}

func (f *fakePublisher) PublishDelayedEvent(orderID int, delay time.Duration, eventType string) error {
	f.delayed = append(f.delayed, publishedEvent{orderID: orderID, eventType: eventType})
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func strPtr(s string) *string { return &s }

func testFixture() (*OrderService, *fakeProductStore, *fakeOrderStore, *fakeMailer, *fakePublisher) {
	products := &fakeProductStore{items: map[int]models.Product{
		1: {ID: 1, Title: "Laptop", PriceEur: dec("899.99"), PriceLek: nullDec("91000"), Stock: 10},
		2: {ID: 2, Title: "Mouse", PriceEur: dec("19.50"), Stock: 5},
	}}
	orders := newFakeOrderStore(products)
	m := &fakeMailer{}
	pub := &fakePublisher{}
	svc := NewOrderService(orders, products, m, pub, 15*time.Minute)
	return svc, products, orders, m, pub
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, _, _, _, _ := testFixture()

	_, err := svc.Create(context.Background(), models.OrderCreate{})
	require.ErrorIs(t, err, ErrNoItems)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, orders, _, _ := testFixture()

	_, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 999, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, products, orders, m, _ := testFixture()

	_, err := svc.Create(context.Background(), models.OrderCreate{
		ShippingEmail: strPtr("blerina@example.com"),
		Items:         []models.OrderItemInput{{ProductID: 2, Quantity: 6}},
	})

	var stockErr store.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.ProductID)

	// Nothing persisted, nothing sent, stock untouched.
	assert.Empty(t, orders.orders)
	assert.Empty(t, m.sent)
	assert.Equal(t, 5, products.items[2].Stock)
}

func TestCreateOrderDuplicateLinesCountAgainstStock(t *testing.T) {
	svc, _, _, _, _ := testFixture()

	// Two lines of 3 against a stock of 5 must fail even though each line
	// alone would fit.
	_, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{
			{ProductID: 2, Quantity: 3},
			{ProductID: 2, Quantity: 3},
		},
	})

	var stockErr store.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.ProductID)
}

func TestCreateOrderTotalsAndSnapshots(t *testing.T) {
	svc, products, _, _, _ := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, order.TotalEur.Equal(dec("1819.48")), "got %s", order.TotalEur)
	// Product 2 has no LEK price; its lines contribute zero.
	assert.True(t, order.TotalLek.Equal(dec("182000")), "got %s", order.TotalLek)

	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].PriceEur.Equal(dec("899.99")))
	assert.True(t, order.Items[0].PriceLek.Equal(dec("91000")))
	assert.True(t, order.Items[1].PriceLek.Equal(decimal.Zero))

	// A later price change must not move the snapshot.
	p := products.items[1]
	p.PriceEur = dec("1099.99")
	products.items[1] = p

	stored, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Items[0].PriceEur.Equal(dec("899.99")))
}

func TestCreateOrderDepletesStockSequentially(t *testing.T) {
	svc, products, _, _, _ := testFixture()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), models.OrderCreate{
			Items: []models.OrderItemInput{{ProductID: 2, Quantity: 1}},
		})
		require.NoError(t, err, "order %d", i+1)
	}
	assert.Equal(t, 0, products.items[2].Stock)

	_, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 2, Quantity: 1}},
	})
	var stockErr store.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
}

func TestCreateOrderNotification(t *testing.T) {
	t.Run("sent when shipping email present", func(t *testing.T) {
		svc, _, _, m, _ := testFixture()

		order, err := svc.Create(context.Background(), models.OrderCreate{
			ShippingEmail: strPtr("blerina@example.com"),
			Items:         []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Len(t, m.sent, 1)
		assert.Equal(t, []string{"blerina@example.com"}, m.sent[0].to)
		assert.Contains(t, m.sent[0].subject, order.OrderNumber)
	})

	t.Run("skipped without shipping email", func(t *testing.T) {
		svc, _, _, m, _ := testFixture()

		_, err := svc.Create(context.Background(), models.OrderCreate{
			Items: []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Empty(t, m.sent)
	})

	t.Run("delivery failure does not fail the order", func(t *testing.T) {
		svc, _, orders, m, _ := testFixture()
		m.fail = true

		order, err := svc.Create(context.Background(), models.OrderCreate{
			ShippingEmail: strPtr("blerina@example.com"),
			Items:         []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Contains(t, orders.orders, order.ID)
	})
}

func TestCreateOrderPublishesEvents(t *testing.T) {
	svc, _, _, _, pub := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "created", pub.events[0].eventType)
	assert.Equal(t, 5, pub.events[0].priority)
	assert.Equal(t, order.ID, pub.events[0].orderID)

	require.Len(t, pub.delayed, 1)
	assert.Equal(t, "payment_check", pub.delayed[0].eventType)
}

func TestCreateOrderLargeTotalGetsHighPriority(t *testing.T) {
	svc, _, _, _, pub := testFixture()

	_, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, 9, pub.events[0].priority)
}

func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	svc, _, _, _, _ := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusDelivered,
		models.OrderStatusPending,
		models.OrderStatusCancelled,
		models.OrderStatusPaid,
	} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestUpdateStatusNotifiesAndPublishes(t *testing.T) {
	svc, _, _, m, pub := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		ShippingEmail: strPtr("blerina@example.com"),
		Items:         []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	m.sent = nil
	pub.events = nil

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].subject, "anulua")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "status_updated", pub.events[0].eventType)
	assert.Equal(t, 8, pub.events[0].priority)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _, _, _ := testFixture()

	_, err := svc.UpdateStatus(context.Background(), 42, models.OrderStatusShipped)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteOrderDoesNotRestoreStock(t *testing.T) {
	svc, products, _, _, _ := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 2, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, products.items[2].Stock)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	assert.Equal(t, 2, products.items[2].Stock)

	require.ErrorIs(t, svc.Delete(context.Background(), order.ID), store.ErrNotFound)
}

func TestNewOrderNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		n := NewOrderNumber()
		require.Len(t, n, 12)
		require.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestGetByNumber(t *testing.T) {
	svc, _, _, _, _ := testFixture()

	order, err := svc.Create(context.Background(), models.OrderCreate{
		Items: []models.OrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := svc.GetByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.GetByNumber(context.Background(), "nope")
	require.True(t, errors.Is(err, store.ErrNotFound))
}
