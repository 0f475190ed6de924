package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mmiru8/nailshop-api/internal/model"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// Cursor is a keyset pagination position: the createdAt and id of the last
// product on the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// ProductUpdate carries the fields of a partial update after the service
// has validated them and derived the slug. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Slug        *string
	Price       *float64
	Description *string
	Category    *model.Category
	Inventory   *model.Inventory
	UpdatedAt   time.Time
}

// ProductRepository defines catalog store access. Consumers depend on this
// interface, not on the MongoDB implementation.
type ProductRepository interface {
	Create(ctx context.Context, p model.Product) error
	// FetchMany resolves a distinct id set in one batched read; absent ids
	// are simply missing from the returned map.
	FetchMany(ctx context.Context, ids []string) (map[string]model.Product, error)
	List(ctx context.Context, limit int, after *Cursor) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) error
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o model.Order) error
	ListForUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, status string, now time.Time) error
}
