package handlers

import "github.com/gin-gonic/gin"

// apiError pairs an HTTP status with a stable error code the UI can branch
// on (not-found renders differently from a generic vendor failure).
type apiError struct {
	status  int
	code    string
	details string
}

func writeError(c *gin.Context, status int, code, details string) {
	body := gin.H{"error": code}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

func writeAPIError(c *gin.Context, e *apiError) {
	writeError(c, e.status, e.code, e.details)
}
