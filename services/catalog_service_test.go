package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proudshop/models"
	"proudshop/store"
)

type fakeCategoryStore struct {
	categories map[int]models.Category
	nextID     int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[int]models.Category{}, nextID: 1}
}

func (f *fakeCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) Get(ctx context.Context, id int) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			found := c
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategoryStore) FindByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Name == name || c.Slug == slug {
			found := c
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategoryStore) Create(ctx context.Context, c *models.Category) error {
	c.ID = f.nextID
	f.nextID++
	f.categories[c.ID] = *c
	return nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, c *models.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	f.categories[c.ID] = *c
	return nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func TestCreateCategoryUniqueness(t *testing.T) {
	svc := NewCatalogService(&fakeProductStore{items: map[int]models.Product{}}, newFakeCategoryStore())
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Veshje", Slug: "veshje"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "Veshje", Slug: "tjeter"})
	require.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "Tjetër", Slug: "veshje"})
	require.ErrorIs(t, err, ErrCategoryExists)
}

func TestUpdateCategory(t *testing.T) {
	categories := newFakeCategoryStore()
	svc := NewCatalogService(&fakeProductStore{items: map[int]models.Product{}}, categories)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Veshje", Slug: "veshje"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, created.ID, models.CategoryInput{Name: "Veshje Verore", Slug: "veshje-verore"})
	require.NoError(t, err)
	assert.Equal(t, "Veshje Verore", updated.Name)

	_, err = svc.UpdateCategory(ctx, 99, models.CategoryInput{Name: "X", Slug: "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

type fakeCustomerStore struct {
	customers map[int]models.Customer
	nextID    int
}

func (f *fakeCustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	out := []models.Customer{}
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			found := c
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCustomerStore) Create(ctx context.Context, c *models.Customer) error {
	f.nextID++
	c.ID = f.nextID
	f.customers[c.ID] = *c
	return nil
}

func TestCreateCustomerUniqueEmail(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerStore{customers: map[int]models.Customer{}})
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CustomerInput{Email: "blerina@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.Create(ctx, models.CustomerInput{Email: "blerina@example.com"})
	require.ErrorIs(t, err, ErrEmailExists)
}
