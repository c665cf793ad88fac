package apperrors

import (
	"fixer_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope returned by the API.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes an AppError to the response. The wrapped cause is
// logged server-side and never reaches the client.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "server error",
			"code", string(err.Code),
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)
	}
	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}
