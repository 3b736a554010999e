package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proudshop/models"
	"proudshop/store"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create persists the order aggregate in one transaction: the order row, its
// items and a conditional stock decrement per item. The decrement is guarded
// by `stock >= quantity` and the affected-row count is checked, so two
// concurrent orders cannot oversell the last unit regardless of the earlier
// read-time check.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, customer_id, status, total_eur, total_lek,
			shipping_name, shipping_email, shipping_phone, shipping_address,
			shipping_city, shipping_zip, shipping_country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.CustomerID, o.Status, o.TotalEur, o.TotalLek,
		o.ShippingName, o.ShippingEmail, o.ShippingPhone, o.ShippingAddress,
		o.ShippingCity, o.ShippingZip, o.ShippingCountry)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	o.ID = int(orderID)

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_eur, price_lek)
			VALUES (?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Quantity, item.PriceEur, item.PriceLek)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("order item id: %w", err)
		}
		item.ID = int(itemID)

		dec, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
			item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := dec.RowsAffected(); n == 0 {
			return store.InsufficientStockError{ProductID: item.ProductID}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	created, err := s.Get(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *created
	return nil
}

const orderColumns = `id, order_number, customer_id, status, total_eur, total_lek,
	shipping_name, shipping_email, shipping_phone, shipping_address,
	shipping_city, shipping_zip, shipping_country, created_at`

func scanOrder(s interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := s.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.TotalEur, &o.TotalLek,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone, &o.ShippingAddress,
		&o.ShippingCity, &o.ShippingZip, &o.ShippingCountry, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) loadItems(ctx context.Context, o *models.Order) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_eur, price_lek
		FROM order_items WHERE order_id = ? ORDER BY id ASC`, o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.PriceEur, &item.PriceLek); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_number = ?", orderNumber)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order by number: %w", err)
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A no-op update also affects zero rows; distinguish missing orders.
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check order: %w", err)
		}
	}
	return nil
}

// Delete removes the order; items go with it through the cascade. Stock is
// not restored.
func (s *OrderStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
