package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

// CategoryTypeHandler handles category type requests.
type CategoryTypeHandler struct {
	categoryTypeService services.CategoryTypeServicer
	auditService        services.AuditServicer
}

// NewCategoryTypeHandler creates a new CategoryTypeHandler.
func NewCategoryTypeHandler(categoryTypeService services.CategoryTypeServicer, auditService services.AuditServicer) *CategoryTypeHandler {
	return &CategoryTypeHandler{categoryTypeService: categoryTypeService, auditService: auditService}
}

// CategoryTypeRequest represents the payload for creating or renaming a
// category type.
type CategoryTypeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// trimmedCategory is the reduced category shape attached by the ?rl=true
// expansion.
type trimmedCategory struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AmountPlanned float64 `json:"amount_planned"`
}

// CreateCategoryType handles the creation of a new category type
// @Summary     Create a category type
// @Description Create a category type owned by the caller
// @Tags        categorytypes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryTypeRequest true "Category type details"
// @Success     201 {object} models.CategoryType "Category type created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categorytypes [post]
func (h *CategoryTypeHandler) CreateCategoryType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categoryType, err := h.categoryTypeService.CreateCategoryType(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY_TYPE", "category_type", categoryType.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"category_type": categoryType})
}

// ListCategoryTypes handles the retrieval of visible category types
// @Summary     List category types
// @Description List the caller's category types plus the global defaults
// @Tags        categorytypes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CategoryType] "Category types"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categorytypes [get]
func (h *CategoryTypeHandler) ListCategoryTypes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categoryTypeService.ListCategoryTypes(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryType handles the retrieval of a single category type
// @Summary     Get category type
// @Description Get a category type; pass rl=true to attach its categories
// @Tags        categorytypes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Param       rl query bool false "Include related categories"
// @Success     200 {object} models.CategoryType "Category type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categorytypes/{id} [get]
func (h *CategoryTypeHandler) GetCategoryType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryType, err := h.categoryTypeService.GetCategoryTypeByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !includeRelated(c) {
		c.JSON(http.StatusOK, gin.H{"category_type": categoryType})
		return
	}

	categories, err := h.categoryTypeService.GetTypeCategories(userID, categoryType.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trimmed := make([]trimmedCategory, len(categories))
	for i, cat := range categories {
		trimmed[i] = trimmedCategory{ID: cat.ID, Name: cat.Name, AmountPlanned: cat.AmountPlanned}
	}

	c.JSON(http.StatusOK, gin.H{
		"category_type": categoryType,
		"categories":    trimmed,
	})
}

// GetTypeCategories handles listing the caller's categories under a type
// @Summary     Get type categories
// @Description List the caller's categories attached to a category type
// @Tags        categorytypes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Success     200 {array} services.CategoryDetail "Categories"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categorytypes/{id}/categories [get]
func (h *CategoryTypeHandler) GetTypeCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryTypeService.GetTypeCategories(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateCategoryType handles renaming a category type
// @Summary     Update category type
// @Description Rename one of the caller's category types
// @Tags        categorytypes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Param       request body CategoryTypeRequest true "New name"
// @Success     200 {object} models.CategoryType "Updated category type"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categorytypes/{id} [put]
func (h *CategoryTypeHandler) UpdateCategoryType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categoryType, err := h.categoryTypeService.UpdateCategoryType(userID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY_TYPE", "category_type", categoryType.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"category_type": categoryType})
}

// DeleteCategoryType handles deleting a category type
// @Summary     Delete category type
// @Description Delete a category type; its categories keep existing with the type reference cleared
// @Tags        categorytypes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     403 {object} ErrorResponse "Protected default type"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categorytypes/{id} [delete]
func (h *CategoryTypeHandler) DeleteCategoryType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	typeID := c.Param("id")
	if err := h.categoryTypeService.DeleteCategoryType(userID, typeID, getIsStaff(c)); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY_TYPE", "category_type", typeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category type deleted successfully"})
}
