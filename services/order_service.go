package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"proudshop/mailer"
	"proudshop/models"
	"proudshop/store"
)

// Mailer attempts a best-effort delivery; false means not delivered, whatever
// the reason. Implementations must never panic into the order workflow.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) bool
}

// EventPublisher pushes order events onto the message bus after commit.
type EventPublisher interface {
	PublishOrderEvent(orderID int, priority int, eventType string) error
	PublishDelayedEvent(orderID int, delay time.Duration, eventType string) error
}

// OrderService is the order workflow engine: it validates line items against
// the catalog, snapshots prices, computes totals, and hands the aggregate to
// the store for atomic persistence. Notifications and bus events run strictly
// after commit and never fail the operation.
type OrderService struct {
	orders   store.OrderStore
	products store.ProductStore
	mailer   Mailer
	events   EventPublisher

	paymentCheckDue time.Duration
}

func NewOrderService(orders store.OrderStore, products store.ProductStore, m Mailer, events EventPublisher, paymentCheckDue time.Duration) *OrderService {
	return &OrderService{
		orders:          orders,
		products:        products,
		mailer:          m,
		events:          events,
		paymentCheckDue: paymentCheckDue,
	}
}

// NewOrderNumber returns the short opaque token callers see on invoices: the
// first 12 characters of a random UUID. Collisions are not handled; the
// unique index on order_number would surface one as an insert error.
func NewOrderNumber() string {
	return uuid.NewString()[:12]
}

func distinctIDs(items []models.OrderItemInput) []int {
	seen := make(map[int]bool, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func (s *OrderService) Create(ctx context.Context, req models.OrderCreate) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	ids := distinctIDs(req.Items)
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrInvalidProduct
	}

	order := &models.Order{
		OrderNumber:     NewOrderNumber(),
		CustomerID:      req.CustomerID,
		Status:          models.OrderStatusPending,
		ShippingName:    req.ShippingName,
		ShippingEmail:   req.ShippingEmail,
		ShippingPhone:   req.ShippingPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingZip:     req.ShippingZip,
		ShippingCountry: req.ShippingCountry,
	}

	// Track remaining stock locally so duplicate lines for the same product
	// are checked against what earlier lines already claimed.
	remaining := make(map[int]int, len(products))
	for id, p := range products {
		remaining[id] = p.Stock
	}

	totalEur := decimal.Zero
	totalLek := decimal.Zero
	for _, item := range req.Items {
		p := products[item.ProductID]
		if remaining[item.ProductID] < item.Quantity {
			return nil, store.InsufficientStockError{ProductID: p.ID}
		}
		remaining[item.ProductID] -= item.Quantity

		qty := decimal.NewFromInt(int64(item.Quantity))
		unitEur := p.PriceEur
		unitLek := p.UnitPriceLek()
		totalEur = totalEur.Add(unitEur.Mul(qty))
		totalLek = totalLek.Add(unitLek.Mul(qty))

		order.Items = append(order.Items, models.OrderItem{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			PriceEur:  unitEur,
			PriceLek:  unitLek,
		})
	}
	order.TotalEur = totalEur
	order.TotalLek = totalLek

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, order)
	s.publishCreated(order)
	return order, nil
}

// UpdateStatus assigns any known status value; there is no transition graph,
// an order may move between any two statuses.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.notifyStatus(ctx, order, status)
	s.publishStatusUpdated(order, status)
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

// Delete removes the order and its items. Stock is not restored; see the
// design notes before changing that.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	return s.orders.Delete(ctx, id)
}

func (s *OrderService) hasShippingEmail(o *models.Order) bool {
	return o.ShippingEmail != nil && *o.ShippingEmail != ""
}

func (s *OrderService) notifyCreated(ctx context.Context, o *models.Order) {
	if !s.hasShippingEmail(o) {
		return
	}
	subject, html := mailer.OrderThankYou(o)
	if !s.mailer.Send(ctx, []string{*o.ShippingEmail}, subject, html) {
		log.Printf("Order %s: confirmation mail not delivered", o.OrderNumber)
	}
}

func (s *OrderService) notifyStatus(ctx context.Context, o *models.Order, status string) {
	if !s.hasShippingEmail(o) {
		return
	}
	subject, html := mailer.OrderStatusUpdate(o, status)
	if !s.mailer.Send(ctx, []string{*o.ShippingEmail}, subject, html) {
		log.Printf("Order %s: status mail not delivered", o.OrderNumber)
	}
}

func (s *OrderService) publishCreated(o *models.Order) {
	if s.events == nil {
		return
	}
	priority := 5
	if o.TotalEur.GreaterThan(decimal.NewFromInt(1000)) {
		priority = 9
	}
	if err := s.events.PublishOrderEvent(o.ID, priority, "created"); err != nil {
		log.Printf("Failed to publish order created event: %v", err)
	}
	if err := s.events.PublishDelayedEvent(o.ID, s.paymentCheckDue, "payment_check"); err != nil {
		log.Printf("Failed to publish delayed payment check event: %v", err)
	}
}

func (s *OrderService) publishStatusUpdated(o *models.Order, status string) {
	if s.events == nil {
		return
	}
	priority := 5
	if status == models.OrderStatusCancelled || status == models.OrderStatusCanceled {
		priority = 8
	}
	if err := s.events.PublishOrderEvent(o.ID, priority, "status_updated"); err != nil {
		log.Printf("Failed to publish order updated event: %v", err)
	}
}
