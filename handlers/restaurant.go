package handlers

import (
	"net/http"
	"strconv"

	"mealmatch/apperror"
	"mealmatch/middleware"
	"mealmatch/search"
	"mealmatch/service"

	"github.com/gin-gonic/gin"
)

type CreateRestaurantRequest struct {
	Name       string `json:"name"`
	Area       string `json:"area"`
	Cuisine    string `json:"cuisine"`
	PriceLevel string `json:"price_level"`
	Halal      bool   `json:"halal"`
	ImageURL   string `json:"image_url"`
}

// CreateRestaurant adds a restaurant owned by the caller (owner only)
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}

	id, err := h.restaurants.Add(c.Request.Context(), middleware.GetUser(c), service.NewRestaurant{
		Name:       req.Name,
		Area:       req.Area,
		Cuisine:    req.Cuisine,
		PriceLevel: req.PriceLevel,
		Halal:      req.Halal,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restaurant_id": id})
}

// ListRestaurants returns restaurants matching q, area, cuisine and price (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	filter := search.Parse(c.Query("q"), c.Query("area"), c.Query("cuisine"), c.Query("price"))

	restaurants, err := h.restaurants.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// GetMenu returns the menu for a restaurant (public). Only numeric ids route.
func (h *Handler) GetMenu(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurantId"), 10, 64)
	if err != nil {
		respondError(c, apperror.NotFound("Not found"))
		return
	}

	items, err := h.restaurants.Menu(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
