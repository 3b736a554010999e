package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proudshop/models"
	"proudshop/store"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, slug FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) get(ctx context.Context, query string, arg any) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *CategoryStore) Get(ctx context.Context, id int) (*models.Category, error) {
	return s.get(ctx, "SELECT id, name, slug FROM categories WHERE id = ?", id)
}

func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.get(ctx, "SELECT id, name, slug FROM categories WHERE slug = ?", slug)
}

func (s *CategoryStore) FindByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug FROM categories WHERE slug = ? OR name = ?", slug, name).
		Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?, ?)", c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	c.ID = int(id)
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ? WHERE id = ?", c.Name, c.Slug, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
