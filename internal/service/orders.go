package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mmiru8/nailshop-api/internal/model"
	"github.com/mmiru8/nailshop-api/internal/repository"
)

// OrderLineInput is a raw client-submitted line. Quantity arrives as a
// JSON number; any client-supplied price field is never read.
type OrderLineInput struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

type OrderService interface {
	Create(ctx context.Context, userID, userEmail string, lines []OrderLineInput) (string, error)
	ListMine(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type orderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	now      func() time.Time
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository) OrderService {
	return &orderService{products: products, orders: orders, now: time.Now}
}

type orderLine struct {
	productID string
	quantity  int
}

// validateLines normalizes the request lines or rejects the whole batch.
func validateLines(lines []OrderLineInput) ([]orderLine, error) {
	if len(lines) == 0 {
		return nil, validationf("products required")
	}
	out := make([]orderLine, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ProductID)
		q := l.Quantity
		// the upper bound keeps the float→int conversion from overflowing
		if id == "" || math.IsNaN(q) || math.IsInf(q, 0) || q < 1 || q > math.MaxInt32 || q != math.Trunc(q) {
			return nil, validationf("invalid products")
		}
		out = append(out, orderLine{productID: id, quantity: int(q)})
	}
	return out, nil
}

// resolveLines re-prices every line from the catalog. Repeated product ids
// are fetched once, and no line is built unless every id exists.
func (s *orderService) resolveLines(ctx context.Context, lines []orderLine) ([]model.OrderLine, error) {
	distinct := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.productID]; ok {
			continue
		}
		seen[l.productID] = struct{}{}
		distinct = append(distinct, l.productID)
	}

	found, err := s.products.FetchMany(ctx, distinct)
	if err != nil {
		return nil, err
	}
	for _, id := range distinct {
		if _, ok := found[id]; !ok {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
	}

	resolved := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		p := found[l.productID]
		resolved = append(resolved, model.OrderLine{
			ProductID:       l.productID,
			Quantity:        l.quantity,
			PriceAtPurchase: p.Price,
			Product:         model.ProductSnapshot{Name: p.Name, Slug: p.Slug, Price: p.Price},
		})
	}
	return resolved, nil
}

// Totals recomputes order totals from the resolved lines.
func Totals(lines []model.OrderLine) (totalItems int, totalPrice float64) {
	for _, l := range lines {
		totalItems += l.Quantity
		totalPrice += float64(l.Quantity) * l.PriceAtPurchase
	}
	return totalItems, totalPrice
}

func (s *orderService) Create(ctx context.Context, userID, userEmail string, lines []OrderLineInput) (string, error) {
	normalized, err := validateLines(lines)
	if err != nil {
		return "", err
	}

	resolved, err := s.resolveLines(ctx, normalized)
	if err != nil {
		return "", err
	}

	totalItems, totalPrice := Totals(resolved)

	// The single write sits at the very end of the pipeline; any failure
	// before this point leaves no record behind.
	now := s.now().UTC()
	o := model.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		UserEmail:  userEmail,
		Status:     model.StatusNew,
		Products:   resolved,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return "", err
	}
	return o.ID, nil
}

func (s *orderService) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// newest first, whatever order the store returned
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id, status string) error {
	status = strings.TrimSpace(status)
	if utf8.RuneCountInString(status) < 2 {
		return validationf("invalid status")
	}
	if err := s.orders.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return &NotFoundError{Entity: "order", ID: id}
		}
		return err
	}
	return nil
}
