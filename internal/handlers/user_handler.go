package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

// UserHandler handles administrative user management. All routes are
// mounted behind the staff-only middleware.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UpdateUserRequest represents the payload for administrative user updates.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	IsActive *bool   `json:"is_active"`
	IsStaff  *bool   `json:"is_staff"`
}

// ListUsers handles the administrative user listing
// @Summary     List users
// @Description List all users (staff only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.User] "Users"
// @Failure     403 {object} ErrorResponse "Staff access required"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles retrieving a user by username
// @Summary     Get user
// @Description Get a user by username (staff only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Success     200 {object} models.User "User"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /users/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByUsername(c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles administrative updates to a user
// @Summary     Update user
// @Description Update administrative fields on a user (staff only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Param       request body UpdateUserRequest true "Updated fields"
// @Success     200 {object} models.User "Updated user"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /users/{username} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(c.Param("username"), req.Email, req.IsActive, req.IsStaff)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(requesterID, "UPDATE_USER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser handles deleting a user
// @Summary     Delete user
// @Description Delete a user and their profile (staff only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /users/{username} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	username := c.Param("username")
	user, err := h.userService.GetUserByUsername(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(username); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(requesterID, "DELETE_USER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
