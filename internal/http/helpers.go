package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/imgpdf/internal/converter"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// Machine-readable error codes.
const (
	CodeInvalidInput     = "invalid_input"
	CodeConversionFailed = "conversion_failed"
	CodeRateLimited      = "rate_limited"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidInput})
}

// respondTooLarge sends a 413 for upload bodies over the configured budget.
func respondTooLarge(c *gin.Context, limit int64) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error: fmt.Sprintf("request body too large (max %d bytes)", limit),
		Code:  CodeInvalidInput,
	})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondConversionError maps converter errors onto status codes:
// invalid input is a client error, everything else a server error.
// The message is passed through; the converter has already logged it.
func respondConversionError(c *gin.Context, err error) {
	if errors.Is(err, converter.ErrInvalidInput) {
		respondBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeConversionFailed})
}
