// Package store declares the persistence interfaces consumed by the service
// and controller layers. The MySQL implementations live in the database
// package; tests substitute in-memory fakes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"proudshop/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// InsufficientStockError names the product whose stock cannot cover the
// requested quantity. The whole order aborts when it is returned.
type InsufficientStockError struct {
	ProductID int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

// ProductFilter narrows admin product listings.
type ProductFilter struct {
	Page     int
	Limit    int
	Search   string
	Category int
	Sort     string // price_asc, price_desc, newest, default title
	Featured *bool
	Offers   *bool
}

// SearchFilter narrows storefront searches.
type SearchFilter struct {
	Query    string
	Category int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string // price_low, price_high, name, default newest
	Page     int
	Limit    int
}

type ProductStore interface {
	List(ctx context.Context, f ProductFilter) ([]models.Product, int, error)
	Search(ctx context.Context, f SearchFilter) ([]models.Product, int, error)
	Get(ctx context.Context, id int) (*models.Product, error)
	// FindByIDs returns a map keyed by product id, silently omitting
	// unmatched ids. Callers detect mismatches by comparing counts.
	FindByIDs(ctx context.Context, ids []int) (map[int]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
}

type OrderStore interface {
	// Create persists the order, its items and the stock decrements in one
	// transaction. Each decrement is a conditional update guarded by the
	// current stock; InsufficientStockError aborts the whole transaction.
	Create(ctx context.Context, o *models.Order) error
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id int) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
}

type CartStore interface {
	List(ctx context.Context, customerID *int) ([]models.CartItem, error)
	Find(ctx context.Context, customerID *int, productID int) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id, quantity int) error
	Delete(ctx context.Context, id int) error
}

type AdminStore interface {
	List(ctx context.Context) ([]models.Admin, error)
	Get(ctx context.Context, id int) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	Update(ctx context.Context, a *models.Admin) error
	Delete(ctx context.Context, id int) error
}

type SettingStore interface {
	List(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key string, value *string) (*models.Setting, error)
}

type RefreshTokenStore interface {
	GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Create(ctx context.Context, t *models.RefreshToken) error
	// Rotate swaps the stored hash and expiry in place.
	Rotate(ctx context.Context, id int, newHash string, expiresAt time.Time) error
	DeleteByHash(ctx context.Context, hash string) (bool, error)
}

type ChatStore interface {
	CreateSession(ctx context.Context, s *models.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ListSessions(ctx context.Context, limit int) ([]models.ChatSession, error)
	AddMessage(ctx context.Context, m *models.ChatMessage) error
}

type CampaignStore interface {
	List(ctx context.Context, limit int) ([]models.Campaign, error)
	Create(ctx context.Context, c *models.Campaign) error
}

// Stats aggregates the admin dashboard counters.
type Stats struct {
	Products   int
	Categories int
	Orders     int
}

type StatsStore interface {
	Counts(ctx context.Context) (*Stats, error)
	RecentOrderNumbers(ctx context.Context, limit int) ([]string, error)
}
