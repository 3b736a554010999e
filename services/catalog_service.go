package services

import (
	"context"
	"errors"

	"proudshop/models"
	"proudshop/store"
)

// CatalogService fronts the product and category stores.
type CatalogService struct {
	products   store.ProductStore
	categories store.CategoryStore
}

func NewCatalogService(products store.ProductStore, categories store.CategoryStore) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, int, error) {
	return s.products.List(ctx, f)
}

func (s *CatalogService) SearchProducts(ctx context.Context, f store.SearchFilter) ([]models.Product, int, error) {
	return s.products.Search(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

func productFromInput(in models.ProductInput) models.Product {
	return models.Product{
		Title:            in.Title,
		Description:      in.Description,
		PriceEur:         in.PriceEur,
		PriceLek:         in.PriceLek,
		Stock:            in.Stock,
		CategoryID:       in.CategoryID,
		Images:           in.Images,
		IsFeatured:       in.IsFeatured,
		IsOffer:          in.IsOffer,
		DiscountPriceEur: in.DiscountPriceEur,
		DiscountPriceLek: in.DiscountPriceLek,
		IsDraft:          in.IsDraft,
		Slug:             in.Slug,
		SourceURL:        in.SourceURL,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p := productFromInput(in)
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error) {
	if _, err := s.products.Get(ctx, id); err != nil {
		return nil, err
	}
	p := productFromInput(in)
	p.ID = id
	if err := s.products.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.GetBySlug(ctx, slug)
}

// CountProductsInCategory reuses the product listing's total for the slug
// endpoint's productCount field.
func (s *CatalogService) CountProductsInCategory(ctx context.Context, categoryID int) (int, error) {
	_, total, err := s.products.List(ctx, store.ProductFilter{Page: 1, Limit: 1, Category: categoryID})
	return total, err
}

func (s *CatalogService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	_, err := s.categories.FindByNameOrSlug(ctx, in.Name, in.Slug)
	if err == nil {
		return nil, ErrCategoryExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	c := models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categories.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int, in models.CategoryInput) (*models.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Slug = in.Slug
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}
