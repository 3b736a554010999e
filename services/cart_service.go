package services

import (
	"context"
	"errors"

	"proudshop/models"
	"proudshop/store"
)

type CartService struct {
	carts store.CartStore
}

func NewCartService(carts store.CartStore) *CartService {
	return &CartService{carts: carts}
}

func (s *CartService) List(ctx context.Context, customerID *int) ([]models.CartItem, error) {
	return s.carts.List(ctx, customerID)
}

// Add merges the quantity into an existing row for the same customer and
// product, otherwise inserts a new row. Carts are never converted to orders
// automatically; the order endpoint takes its own line-item list.
func (s *CartService) Add(ctx context.Context, customerID *int, in models.CartItemInput) (*models.CartItem, error) {
	existing, err := s.carts.Find(ctx, customerID, in.ProductID)
	if err == nil {
		existing.Quantity += in.Quantity
		if err := s.carts.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	item := models.CartItem{
		CustomerID: customerID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
	}
	if err := s.carts.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartService) Remove(ctx context.Context, itemID int) error {
	return s.carts.Delete(ctx, itemID)
}

type CustomerService struct {
	customers store.CustomerStore
}

func NewCustomerService(customers store.CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.customers.List(ctx)
}

func (s *CustomerService) Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	_, err := s.customers.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	c := models.Customer{Email: in.Email, Name: in.Name, Phone: in.Phone}
	if err := s.customers.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
