package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmiru8/nailshop-api/internal/auth"
	"github.com/mmiru8/nailshop-api/internal/service"
)

type OrdersHTTP struct {
	S   service.OrderService
	Log *slog.Logger
}

func NewOrdersHTTP(s service.OrderService, log *slog.Logger) *OrdersHTTP {
	return &OrdersHTTP{S: s, Log: log}
}

type createOrderRequest struct {
	Products []service.OrderLineInput `json:"products"`
	// older clients sent the lines under "items"
	Items []service.OrderLineInput `json:"items"`
}

func (h *OrdersHTTP) Create(c *gin.Context) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	lines := req.Products
	if len(lines) == 0 {
		lines = req.Items
	}

	id, err := h.S.Create(c.Request.Context(), ident.UID, ident.Email, lines)
	if err != nil {
		// a missing product is the client's mistake here, not a lookup miss
		writeError(c, h.Log, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *OrdersHTTP) ListMine(c *gin.Context) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	orders, err := h.S.ListMine(c.Request.Context(), ident.UID)
	if err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrdersHTTP) ListAll(c *gin.Context) {
	orders, err := h.S.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrdersHTTP) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.S.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, h.Log, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
