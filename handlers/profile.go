package handlers

import (
	"net/http"

	"mealmatch/middleware"
	"mealmatch/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	user, err := h.profile.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile reads optional name, password and photo form fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	in := service.ProfileUpdate{
		Name:     c.PostForm("name"),
		Password: c.PostForm("password"),
	}
	if fh, err := c.FormFile("photo"); err == nil {
		in.Photo = fh
	}

	photoURL, err := h.profile.Update(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "photo_url": photoURL})
}
