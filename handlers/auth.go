package handlers

import (
	"net/http"

	"mealmatch/apperror"
	"mealmatch/middleware"
	"mealmatch/models"
	"mealmatch/service"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account from form fields and signs it in
func (h *Handler) Register(c *gin.Context) {
	in := service.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Role:     models.UserRole(c.PostForm("role")),
	}
	if fh, err := c.FormFile("photo"); err == nil {
		in.Photo = fh
	}

	user, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.Login(c.Request.Context(), user.ID); err != nil {
		respondError(c, apperror.Internal("start session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Login checks credentials and signs the user in. A body that is not JSON is
// treated as empty credentials.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	_ = c.ShouldBindJSON(&req)

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.Login(c.Request.Context(), user.ID); err != nil {
		respondError(c, apperror.Internal("start session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		respondError(c, apperror.Internal("end session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the signed-in user's profile, or null.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
