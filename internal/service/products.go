package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmiru8/nailshop-api/internal/model"
	"github.com/mmiru8/nailshop-api/internal/repository"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Category    *model.Category
	Inventory   *model.Inventory
}

// ProductPage is one page of the public catalog. NextCursor is nil once a
// page comes back short, signaling the end of results.
type ProductPage struct {
	Items      []model.Product `json:"items"`
	NextCursor *string         `json:"nextCursor"`
}

type ProductService interface {
	Create(ctx context.Context, createdBy string, in ProductInput) (string, error)
	List(ctx context.Context, limit int, cursor string) (ProductPage, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id string, patch model.ProductPatch) error
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo repository.ProductRepository
	now  func() time.Time
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo, now: time.Now}
}

func (s *productService) Create(ctx context.Context, createdBy string, in ProductInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return "", validationf("invalid name")
	}
	if !validPrice(in.Price) {
		return "", validationf("invalid price")
	}

	now := s.now().UTC()
	p := model.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        Slugify(name),
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Inventory:   in.Inventory,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *productService) List(ctx context.Context, limit int, cursor string) (ProductPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, err := s.repo.List(ctx, limit, parseCursor(cursor))
	if err != nil {
		return ProductPage{}, err
	}
	if items == nil {
		items = []model.Product{}
	}

	page := ProductPage{Items: items}
	if len(items) == limit {
		last := items[len(items)-1]
		c := encodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &c
	}
	return page, nil
}

func (s *productService) ListAll(ctx context.Context) ([]model.Product, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Product{}
	}
	return items, nil
}

func (s *productService) Update(ctx context.Context, id string, patch model.ProductPatch) error {
	upd := repository.ProductUpdate{UpdatedAt: s.now().UTC()}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len([]rune(name)) < 2 {
			return validationf("invalid name")
		}
		slug := Slugify(name)
		upd.Name = &name
		upd.Slug = &slug
	}
	if patch.Price != nil {
		if !validPrice(*patch.Price) {
			return validationf("invalid price")
		}
		upd.Price = patch.Price
	}
	upd.Description = patch.Description
	upd.Category = patch.Category
	upd.Inventory = patch.Inventory

	if err := s.repo.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &NotFoundError{Entity: "product", ID: id}
		}
		return err
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// cursor format: "<createdAt>|<id>"; malformed cursors fall back to the
// first page.
func parseCursor(raw string) *repository.Cursor {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil
	}
	return &repository.Cursor{CreatedAt: t, ID: parts[1]}
}

func encodeCursor(t time.Time, id string) string {
	return t.UTC().Format(time.RFC3339Nano) + "|" + id
}
