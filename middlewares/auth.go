package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"proudshop/auth"
	"proudshop/models"
	"proudshop/store"
)

const adminContextKey = "admin"

// RequireAdmin validates the bearer access token and loads the admin
// account into the request context. Requests without a valid token get 401.
func RequireAdmin(tokens *auth.Manager, admins store.AdminStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		adminID, err := tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		admin, err := admins.Get(c.Request.Context(), adminID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		c.Set(adminContextKey, *admin)
		c.Next()
	}
}

// RequireSuperAdmin rejects admins below the SUPER_ADMIN role with 403.
// It must run after RequireAdmin.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok || admin.Role != models.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the admin loaded by RequireAdmin.
func CurrentAdmin(c *gin.Context) (models.Admin, bool) {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return models.Admin{}, false
	}
	admin, ok := v.(models.Admin)
	return admin, ok
}
