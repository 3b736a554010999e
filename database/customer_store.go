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

type CustomerStore struct {
	db *sql.DB
}

func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, name, phone, created_at FROM customers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, phone, created_at FROM customers WHERE email = ?", email).
		Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (s *CustomerStore) Create(ctx context.Context, c *models.Customer) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO customers (email, name, phone) VALUES (?, ?, ?)", c.Email, c.Name, c.Phone)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("customer id: %w", err)
	}
	c.ID = int(id)
	c.CreatedAt = time.Now()
	return nil
}
