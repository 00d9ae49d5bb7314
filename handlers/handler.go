package handlers

import (
	"net/http"
	"time"

	"mealmatch/apperror"
	"mealmatch/service"
	"mealmatch/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Auth        *service.AuthService
	Profile     *service.ProfileService
	Restaurants *service.RestaurantService
	Orders      *service.OrderService
	Sessions    *session.Manager
}

// Handler holds the services every endpoint delegates to.
type Handler struct {
	auth        *service.AuthService
	profile     *service.ProfileService
	restaurants *service.RestaurantService
	orders      *service.OrderService
	sessions    *session.Manager
}

func New(d Deps) *Handler {
	return &Handler{
		auth:        d.Auth,
		profile:     d.Profile,
		restaurants: d.Restaurants,
		orders:      d.Orders,
		sessions:    d.Sessions,
	}
}

// respondError writes {"error": msg} with the status for err's kind. Causes of
// internal errors are logged, never sent.
func respondError(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperror.Message(err)})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mealmatch",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
