package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmiru8/nailshop-api/internal/auth"
	"github.com/mmiru8/nailshop-api/internal/handlers"
	"github.com/mmiru8/nailshop-api/internal/repository"
	"github.com/mmiru8/nailshop-api/internal/service"
)

// NewServer connects the backing store and wires the full API. The
// returned cleanup closes the MongoDB client.
func NewServer(cfg Config, log *slog.Logger) (*gin.Engine, func(), error) {
	if cfg.JWTSecret == "" {
		return nil, nil, errors.New("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return nil, nil, err
	}

	productRepo := repository.NewMongoProductRepository(db)
	products := service.NewProductService(productRepo)
	orders := service.NewOrderService(productRepo, repository.NewMongoOrderRepository(db))
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	roles := auth.NewAllowListResolver(cfg.AdminEmails)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := NewRouter(cfg, log, products, orders, verifier, roles)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(ctx)
	}
	return r, cleanup, nil
}

// NewRouter builds the route table over already-constructed collaborators,
// so tests can drop in fakes.
func NewRouter(
	cfg Config,
	log *slog.Logger,
	products service.ProductService,
	orders service.OrderService,
	verifier auth.TokenVerifier,
	roles auth.RoleResolver,
) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	requireAuth := auth.RequireAuth(verifier)
	requireAdmin := auth.RequireAdmin(roles)

	ph := handlers.NewProductsHTTP(products, log)
	oh := handlers.NewOrdersHTTP(orders, log)

	api := r.Group("/api")

	if cfg.PublicCatalog {
		api.GET("/products", ph.List)
	} else {
		api.GET("/products", requireAuth, ph.List)
	}
	api.GET("/products/all", requireAuth, requireAdmin, ph.ListAll)
	api.POST("/products", requireAuth, requireAdmin, ph.Create)
	api.PUT("/products/:id", requireAuth, requireAdmin, ph.Update)
	api.DELETE("/products/:id", requireAuth, requireAdmin, ph.Delete)

	api.POST("/orders", requireAuth, oh.Create)
	api.GET("/orders/my", requireAuth, oh.ListMine)
	api.GET("/orders", requireAuth, requireAdmin, oh.ListAll)
	api.PUT("/orders/:id/status", requireAuth, requireAdmin, oh.UpdateStatus)

	return r
}
