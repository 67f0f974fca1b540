package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/middleware"
)

// ErrorResponse is the JSON shape of error responses, used in API docs.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated user ID from the Gin context.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return userID.(string), nil
}

// getIsStaff reports whether the authenticated caller is staff.
func getIsStaff(c *gin.Context) bool {
	isStaff, exists := c.Get(middleware.ContextIsStaff)
	return exists && isStaff == true
}

// includeRelated reports whether the caller asked for the related-object
// list expansion on a retrieve endpoint (?rl=true).
func includeRelated(c *gin.Context) bool {
	return c.Query("rl") == "true"
}

// respondWithError writes a consistent JSON error response. AppErrors use
// their own status code and message; anything else is logged and answered
// with a generic internal error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
