package handlers

import (
	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext reads the authenticated user's ID from the JWT claims
// placed in the context by the auth middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
