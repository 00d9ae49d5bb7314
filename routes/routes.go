package routes

import (
	"net/http"

	"mealmatch/handlers"
	"mealmatch/middleware"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Options carries what the route table needs beyond the handlers.
type Options struct {
	Handler     *handlers.Handler
	Static      *handlers.Static
	Sessions    *session.Manager
	Users       *repository.UserRepository
	UploadDir   string
	CORSOrigins []string
	Logger      zerolog.Logger
}

func SetupRoutes(r *gin.Engine, o Options) {
	h := o.Handler

	r.GET("/health", handlers.Health)
	if o.UploadDir != "" {
		r.StaticFS("/uploads", gin.Dir(o.UploadDir, false))
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.POST("/auth/logout", h.Logout)
		public.GET("/auth/me", h.Me)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/menu/:restaurantId", h.GetMenu)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)

		auth.GET("/orders", h.GetMyOrders)
		auth.POST("/orders", h.PlaceOrder)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	owner := r.Group("/api/owner")
	owner.Use(middleware.AuthRequired(), middleware.RoleRequired(o.Users, models.RoleOwner))
	{
		owner.POST("/restaurants", h.CreateRestaurant)
	}

	if o.Static != nil {
		r.NoRoute(o.Static.NoRoute)
	}
}

// NewRouter builds the engine with its middleware and routes and wraps it in
// the session layer, which has to sit outside gin to set the cookie.
func NewRouter(o Options) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(o.Logger))
	r.Use(middleware.CORS(o.CORSOrigins))
	r.Use(middleware.LoadUser(o.Sessions))

	SetupRoutes(r, o)
	return o.Sessions.LoadAndSave(r)
}
