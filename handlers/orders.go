package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"mealmatch/middleware"
	"mealmatch/service"

	"github.com/gin-gonic/gin"
)

// Ids and quantities arrive as JSON numbers or numeric strings, so they are
// decoded loosely and coerced below.
type PlaceOrderRequest struct {
	RestaurantID interface{} `json:"restaurant_id"`
	Items        []struct {
		MenuItemID interface{} `json:"menu_item_id"`
		Quantity   interface{} `json:"quantity"`
	} `json:"items"`
}

// coerceID returns 0 for anything that is not a positive whole number.
func coerceID(v interface{}) uint {
	switch x := v.(type) {
	case float64:
		if x >= 1 && x <= math.MaxUint32 && x == math.Trunc(x) {
			return uint(x)
		}
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(x), 10, 32); err == nil {
			return uint(n)
		}
	}
	return 0
}

// coerceQuantity truncates numbers and parses integer strings; anything else
// is 0, which the order service raises to 1.
func coerceQuantity(v interface{}) int {
	switch x := v.(type) {
	case float64:
		if x >= 1 && x <= math.MaxInt32 {
			return int(x)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	orders, err := h.orders.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// PlaceOrder creates a pending order. A malformed body is treated as an order
// with no items.
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = PlaceOrderRequest{}
	}

	order := service.OrderRequest{
		RestaurantID: coerceID(req.RestaurantID),
		Items:        make([]service.OrderLine, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, service.OrderLine{
			MenuItemID: coerceID(it.MenuItemID),
			Quantity:   coerceQuantity(it.Quantity),
		})
	}

	res, err := h.orders.Create(c.Request.Context(), userID, order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"order_id":      res.OrderID,
		"dropped_items": res.Dropped,
	})
}
