package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proudshop/models"
	"proudshop/store"
)

type fakeCartStore struct {
	items  map[int]models.CartItem
	nextID int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[int]models.CartItem{}, nextID: 1}
}

func sameCustomer(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeCartStore) List(ctx context.Context, customerID *int) ([]models.CartItem, error) {
	out := []models.CartItem{}
	for _, item := range f.items {
		if customerID == nil || sameCustomer(item.CustomerID, customerID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartStore) Find(ctx context.Context, customerID *int, productID int) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.ProductID == productID && sameCustomer(item.CustomerID, customerID) {
			found := item
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCartStore) Create(ctx context.Context, item *models.CartItem) error {
	item.ID = f.nextID
	f.nextID++
	f.items[item.ID] = *item
	return nil
}

func (f *fakeCartStore) UpdateQuantity(ctx context.Context, id, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return store.ErrNotFound
	}
	item.Quantity = quantity
	f.items[id] = item
	return nil
}

func (f *fakeCartStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestCartAddMergesQuantity(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts)
	ctx := context.Background()
	customer := 7

	first, err := svc.Add(ctx, &customer, models.CartItemInput{ProductID: 3, Quantity: 2})
	require.NoError(t, err)

	merged, err := svc.Add(ctx, &customer, models.CartItemInput{ProductID: 3, Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 7, merged.Quantity)
	assert.Len(t, carts.items, 1)
}

func TestCartAddSeparatesCustomers(t *testing.T) {
	svc := NewCartService(newFakeCartStore())
	ctx := context.Background()
	a, b := 1, 2

	itemA, err := svc.Add(ctx, &a, models.CartItemInput{ProductID: 3, Quantity: 1})
	require.NoError(t, err)
	itemB, err := svc.Add(ctx, &b, models.CartItemInput{ProductID: 3, Quantity: 1})
	require.NoError(t, err)
	anon, err := svc.Add(ctx, nil, models.CartItemInput{ProductID: 3, Quantity: 1})
	require.NoError(t, err)

	assert.NotEqual(t, itemA.ID, itemB.ID)
	assert.NotEqual(t, itemA.ID, anon.ID)
}

func TestCartRemove(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts)
	ctx := context.Background()

	item, err := svc.Add(ctx, nil, models.CartItemInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, item.ID))
	require.ErrorIs(t, svc.Remove(ctx, item.ID), store.ErrNotFound)
}
