package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mmiru8/nailshop-api/internal/auth"
	"github.com/mmiru8/nailshop-api/internal/model"
	"github.com/mmiru8/nailshop-api/internal/service"
)

type ProductsHTTP struct {
	S   service.ProductService
	Log *slog.Logger
}

func NewProductsHTTP(s service.ProductService, log *slog.Logger) *ProductsHTTP {
	return &ProductsHTTP{S: s, Log: log}
}

func (h *ProductsHTTP) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, err := h.S.List(c.Request.Context(), limit, c.Query("cursor"))
	if err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductsHTTP) ListAll(c *gin.Context) {
	items, err := h.S.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createProductRequest struct {
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	Description string           `json:"description"`
	Category    *model.Category  `json:"category"`
	Inventory   *model.Inventory `json:"inventory"`
}

func (h *ProductsHTTP) Create(c *gin.Context) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.S.Create(c.Request.Context(), ident.UID, service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Inventory:   req.Inventory,
	})
	if err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ProductsHTTP) Update(c *gin.Context) {
	var patch model.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.S.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHTTP) Delete(c *gin.Context) {
	if err := h.S.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
