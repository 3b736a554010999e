package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"proudshop/models"
	"proudshop/store"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, title, description, price_eur, price_lek, stock, category_id, images,
	is_featured, is_offer, discount_price_eur, discount_price_lek, is_draft, slug, source_url,
	created_at, updated_at`

func scanProduct(s interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := s.Scan(&p.ID, &p.Title, &p.Description, &p.PriceEur, &p.PriceLek, &p.Stock,
		&p.CategoryID, &p.Images, &p.IsFeatured, &p.IsOffer, &p.DiscountPriceEur,
		&p.DiscountPriceLek, &p.IsDraft, &p.Slug, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) List(ctx context.Context, f store.ProductFilter) ([]models.Product, int, error) {
	where := []string{"1=1"}
	var args []any
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	if f.Category != 0 {
		where = append(where, "category_id = ?")
		args = append(args, f.Category)
	}
	if f.Featured != nil {
		where = append(where, "is_featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Offers != nil {
		where = append(where, "is_offer = ?")
		args = append(args, *f.Offers)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order := "title ASC"
	switch f.Sort {
	case "price_asc":
		order = "price_eur ASC"
	case "price_desc":
		order = "price_eur DESC"
	case "newest":
		order = "id DESC"
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE "+cond+" ORDER BY "+order+" LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (s *ProductStore) Search(ctx context.Context, f store.SearchFilter) ([]models.Product, int, error) {
	where := []string{"1=1"}
	var args []any
	if f.Query != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	if f.Category != 0 {
		where = append(where, "category_id = ?")
		args = append(args, f.Category)
	}
	if f.MinPrice != nil {
		where = append(where, "price_eur >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price_eur <= ?")
		args = append(args, *f.MaxPrice)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order := "id DESC"
	switch f.Sort {
	case "price_low":
		order = "price_eur ASC"
	case "price_high":
		order = "price_eur DESC"
	case "name":
		order = "title ASC"
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE "+cond+" ORDER BY "+order+" LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (s *ProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) FindByIDs(ctx context.Context, ids []int) (map[int]models.Product, error) {
	if len(ids) == 0 {
		return map[int]models.Product{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	found := make(map[int]models.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		found[p.ID] = *p
	}
	return found, rows.Err()
}

func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (title, description, price_eur, price_lek, stock, category_id, images,
			is_featured, is_offer, discount_price_eur, discount_price_lek, is_draft, slug, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.PriceEur, p.PriceLek, p.Stock, p.CategoryID, p.Images,
		p.IsFeatured, p.IsOffer, p.DiscountPriceEur, p.DiscountPriceLek, p.IsDraft, p.Slug, p.SourceURL)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	p.ID = int(id)
	created, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET title = ?, description = ?, price_eur = ?, price_lek = ?, stock = ?,
			category_id = ?, images = ?, is_featured = ?, is_offer = ?, discount_price_eur = ?,
			discount_price_lek = ?, is_draft = ?, slug = ?, source_url = ?
		WHERE id = ?`,
		p.Title, p.Description, p.PriceEur, p.PriceLek, p.Stock, p.CategoryID, p.Images,
		p.IsFeatured, p.IsOffer, p.DiscountPriceEur, p.DiscountPriceLek, p.IsDraft, p.Slug,
		p.SourceURL, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, p.ID); err != nil {
			return err
		}
	}
	updated, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
