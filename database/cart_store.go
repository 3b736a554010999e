package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proudshop/models"
	"proudshop/store"
)

type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) List(ctx context.Context, customerID *int) ([]models.CartItem, error) {
	query := "SELECT id, customer_id, product_id, quantity, created_at FROM cart_items"
	var args []any
	if customerID != nil {
		query += " WHERE customer_id = ?"
		args = append(args, *customerID)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.CustomerID, &item.ProductID,
			&item.Quantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *CartStore) Find(ctx context.Context, customerID *int, productID int) (*models.CartItem, error) {
	query := "SELECT id, customer_id, product_id, quantity, created_at FROM cart_items WHERE product_id = ?"
	args := []any{productID}
	if customerID != nil {
		query += " AND customer_id = ?"
		args = append(args, *customerID)
	} else {
		query += " AND customer_id IS NULL"
	}

	var item models.CartItem
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&item.ID, &item.CustomerID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &item, nil
}

func (s *CartStore) Create(ctx context.Context, item *models.CartItem) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO cart_items (customer_id, product_id, quantity) VALUES (?, ?, ?)",
		item.CustomerID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("cart item id: %w", err)
	}
	item.ID = int(id)
	item.CreatedAt = time.Now()
	return nil
}

func (s *CartStore) UpdateQuantity(ctx context.Context, id, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ? WHERE id = ?", quantity, id)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
