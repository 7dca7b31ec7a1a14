package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// currentUserID reads the authenticated user id set by the auth
// middleware. A missing value means the route was wired without it.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return "", false
	}
	return id, true
}
