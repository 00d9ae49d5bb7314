package middleware

import (
	"net/http"
	"strings"

	"mealmatch/apperror"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/session"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// LoadUser copies the session's user id, if any, into the request context.
func LoadUser(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessions.UserID(c.Request.Context()); ok {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// AuthRequired rejects requests without an authenticated session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired loads the caller and enforces that they have one of the
// allowed roles. It must run after AuthRequired.
func RoleRequired(users *repository.UserRepository, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := GetUserID(c)
		user, err := users.GetByID(c.Request.Context(), id)
		if apperror.Is(err, apperror.KindNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Set(userKey, user)
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetUserID extracts the caller's user id from context.
func GetUserID(c *gin.Context) (uint, bool) {
	val, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// GetUser returns the user loaded by RoleRequired.
func GetUser(c *gin.Context) *models.User {
	val, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}
