package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiru8/nailshop-api/internal/auth"
	"github.com/mmiru8/nailshop-api/internal/model"
	"github.com/mmiru8/nailshop-api/internal/repository"
	"github.com/mmiru8/nailshop-api/internal/service"
)

const testSecret = "test-secret"

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]model.Product)}
}

func (m *memProductRepo) Create(_ context.Context, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *memProductRepo) FetchMany(_ context.Context, ids []string) (map[string]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := make(map[string]model.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (m *memProductRepo) sortedDesc() []model.Product {
	var out []model.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memProductRepo) List(_ context.Context, limit int, after *repository.Cursor) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Product
	for _, p := range m.sortedDesc() {
		if after != nil {
			beyond := p.CreatedAt.Before(after.CreatedAt) ||
				(p.CreatedAt.Equal(after.CreatedAt) && p.ID < after.ID)
			if !beyond {
				continue
			}
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedDesc(), nil
}

func (m *memProductRepo) Update(_ context.Context, id string, upd repository.ProductUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Slug != nil {
		p.Slug = *upd.Slug
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Category != nil {
		p.Category = upd.Category
	}
	if upd.Inventory != nil {
		p.Inventory = upd.Inventory
	}
	p.UpdatedAt = upd.UpdatedAt
	m.products[id] = p
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []model.Order
}

func (m *memOrderRepo) Create(_ context.Context, o model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrderRepo) ListForUser(_ context.Context, userID string) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Order(nil), m.orders...), nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, id, status string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			m.orders[i].UpdatedAt = now
			return nil
		}
	}
	return repository.ErrOrderNotFound
}

func newTestRouter(t *testing.T, cfg Config) (*gin.Engine, *memProductRepo, *memOrderRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pr := newMemProductRepo()
	or := &memOrderRepo{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(cfg, log,
		service.NewProductService(pr),
		service.NewOrderService(pr, or),
		auth.NewJWTVerifier(testSecret),
		auth.NewAllowListResolver([]string{"admin@shop.ro"}),
	)
	return r, pr, or
}

func signToken(t *testing.T, uid, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t, Config{PublicCatalog: true})

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticationGate(t *testing.T) {
	r, _, _ := newTestRouter(t, Config{PublicCatalog: true})

	paths := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders/my"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPut, "/api/orders/o1/status"},
		{http.MethodGet, "/api/products/all"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/p1"},
		{http.MethodDelete, "/api/products/p1"},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", p.method, p.path)

		w = doJSON(t, r, p.method, p.path, "bogus-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with invalid token", p.method, p.path)
	}
}

func TestAuthorizationGate(t *testing.T) {
	r, _, _ := newTestRouter(t, Config{PublicCatalog: true})
	user := signToken(t, "u1", "user@shop.ro")

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/orders"},
		{http.MethodPut, "/api/orders/o1/status"},
		{http.MethodGet, "/api/products/all"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/p1"},
		{http.MethodDelete, "/api/products/p1"},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, user, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as non-admin", p.method, p.path)
	}
}

func TestProductLifecycle(t *testing.T) {
	r, pr, _ := newTestRouter(t, Config{PublicCatalog: true})
	admin := signToken(t, "a1", "admin@shop.ro")

	w := doJSON(t, r, http.MethodPost, "/api/products", admin, gin.H{
		"name":        "Gel UV Builder Pink",
		"price":       10.00,
		"description": "Gel de construcție.",
		"category":    gin.H{"id": "gel", "name": "Geluri UV"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decodeBody(t, w)["id"].(string)
	require.NotEmpty(t, id)

	// public listing sees it
	w = doJSON(t, r, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody(t, w)
	assert.Len(t, page["items"], 1)
	assert.Nil(t, page["nextCursor"])

	// rename regenerates the slug
	w = doJSON(t, r, http.MethodPut, "/api/products/"+id, admin, gin.H{"name": "Gel UV Milky White"})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "gel-uv-milky-white", pr.products[id].Slug)

	w = doJSON(t, r, http.MethodPut, "/api/products/"+id, admin, gin.H{"price": -4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/products/does-not-exist", admin, gin.H{"price": 4.0})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/products/"+id, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, pr.products)
}

func TestProductCreateValidation(t *testing.T) {
	r, _, _ := newTestRouter(t, Config{PublicCatalog: true})
	admin := signToken(t, "a1", "admin@shop.ro")

	w := doJSON(t, r, http.MethodPost, "/api/products", admin, gin.H{"name": "x", "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/products", admin, gin.H{"name": "Cleaner", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogPagination(t *testing.T) {
	r, pr, _ := newTestRouter(t, Config{PublicCatalog: true})
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, pr.Create(context.Background(), model.Product{
			ID:        fmt.Sprintf("P%d", i+1),
			Name:      fmt.Sprintf("Produs %d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	w := doJSON(t, r, http.MethodGet, "/api/products?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody(t, w)
	require.Len(t, page["items"], 2)
	cursor, _ := page["nextCursor"].(string)
	require.NotEmpty(t, cursor)

	w = doJSON(t, r, http.MethodGet, "/api/products?limit=2&cursor="+cursor, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeBody(t, w)
	require.Len(t, page["items"], 1)
	assert.Nil(t, page["nextCursor"])
}

func TestPrivateCatalogFlag(t *testing.T) {
	r, _, _ := newTestRouter(t, Config{PublicCatalog: false})

	w := doJSON(t, r, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user := signToken(t, "u1", "user@shop.ro")
	w = doJSON(t, r, http.MethodGet, "/api/products", user, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderFlow(t *testing.T) {
	r, pr, or := newTestRouter(t, Config{PublicCatalog: true})
	require.NoError(t, pr.Create(context.Background(), model.Product{
		ID: "P1", Name: "Gel UV Builder Pink", Slug: "gel-uv-builder-pink", Price: 10.00,
	}))
	require.NoError(t, pr.Create(context.Background(), model.Product{
		ID: "P2", Name: "Top Coat No Wipe", Slug: "top-coat-no-wipe", Price: 25.00,
	}))

	user := signToken(t, "u1", "user@shop.ro")
	admin := signToken(t, "a1", "admin@shop.ro")

	w := doJSON(t, r, http.MethodPost, "/api/orders", user, gin.H{
		"products": []gin.H{
			{"productId": "P1", "quantity": 2},
			{"productId": "P2", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decodeBody(t, w)["id"].(string)
	require.NotEmpty(t, id)

	require.Len(t, or.orders, 1)
	o := or.orders[0]
	assert.Equal(t, model.StatusNew, o.Status)
	assert.Equal(t, 3, o.TotalItems)
	assert.InDelta(t, 45.00, o.TotalPrice, 1e-9)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, "user@shop.ro", o.UserEmail)

	w = doJSON(t, r, http.MethodGet, "/api/orders/my", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/orders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/orders/"+id+"/status", admin, gin.H{"status": "livrata"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "livrata", or.orders[0].Status)

	w = doJSON(t, r, http.MethodPut, "/api/orders/"+id+"/status", admin, gin.H{"status": " a "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/orders/unknown/status", admin, gin.H{"status": "livrata"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderCreateRejections(t *testing.T) {
	r, pr, or := newTestRouter(t, Config{PublicCatalog: true})
	require.NoError(t, pr.Create(context.Background(), model.Product{ID: "P1", Name: "Cleaner", Price: 5}))
	user := signToken(t, "u1", "user@shop.ro")

	w := doJSON(t, r, http.MethodPost, "/api/orders", user, gin.H{"products": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/orders", user, gin.H{
		"products": []gin.H{{"productId": "P1", "quantity": 1}, {"productId": "ghost", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, or.orders, "rejected requests must write nothing")
}

func TestOrderCreateLegacyItemsField(t *testing.T) {
	r, pr, or := newTestRouter(t, Config{PublicCatalog: true})
	require.NoError(t, pr.Create(context.Background(), model.Product{ID: "P1", Name: "Cleaner", Price: 5}))
	user := signToken(t, "u1", "user@shop.ro")

	w := doJSON(t, r, http.MethodPost, "/api/orders", user, gin.H{
		"items": []gin.H{{"productId": "P1", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, or.orders, 1)
	assert.Equal(t, 2, or.orders[0].TotalItems)
}
