// Package controllers holds the gin handlers. Each controller is a struct
// over its service so tests can wire fakes underneath.
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"proudshop/services"
	"proudshop/store"
)

// respondError maps service and store errors onto the API error contract:
// {"detail": message} with 400 for caller-fixable input, 401 for credential
// problems, 404 for missing rows and 500 for everything else.
func respondError(c *gin.Context, err error) {
	var stock store.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Insufficient stock for product %d", stock.ProductID)})
	case errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrEmailExists),
		errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, services.ErrAdminEmailExists),
		errors.Is(err, services.ErrProfileEmailTaken),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordSame),
		errors.Is(err, services.ErrFacebookNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": msg})
}
