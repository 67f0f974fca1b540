package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetbuddy/internal/services"
)

// AdminHandler handles staff-only administrative operations.
type AdminHandler struct {
	bootstrapService services.BootstrapServicer
	auditService     services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bootstrapService services.BootstrapServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{bootstrapService: bootstrapService, auditService: auditService}
}

// CreateDefaults handles provisioning of the default category types
// @Summary     Create default category types
// @Description Ensure the built-in category types exist. Safe to call repeatedly; existing rows are left untouched.
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Defaults ensured"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Staff only"
// @Router      /admin/create-defaults [post]
func (h *AdminHandler) CreateDefaults(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	admin, err := h.bootstrapService.EnsureAdmin()
	if err != nil {
		respondWithError(c, err)
		return
	}

	types, err := h.bootstrapService.EnsureDefaultCategoryTypes(admin.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DEFAULTS", "category_type", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"message":        "default category types ensured",
		"category_types": types,
	})
}
