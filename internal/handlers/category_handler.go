package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the payload for creating a category.
type CreateCategoryRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=50"`
	CategoryTypeID *string `json:"category_type_id"`
	AmountPlanned  float64 `json:"amount_planned" binding:"omitempty,gte=0"`
	Description    string  `json:"description"`
}

// UpdateCategoryRequest represents the payload for updating a category.
// Absent fields are left unchanged.
type UpdateCategoryRequest struct {
	Name           string   `json:"name" binding:"omitempty,min=1,max=50"`
	CategoryTypeID *string  `json:"category_type_id"`
	AmountPlanned  *float64 `json:"amount_planned" binding:"omitempty,gte=0"`
	Description    *string  `json:"description"`
}

// listQuery holds search/ordering/pagination query parameters.
type listQuery struct {
	pagination.PageRequest
	Search   string `form:"search"`
	Ordering string `form:"ordering" binding:"omitempty,ordering"`
}

// trimmedTransaction is the reduced transaction shape attached by the
// ?rl=true expansion.
type trimmedTransaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a budget category with a planned amount
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} services.CategoryDetail "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category type not found"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.CategoryTypeID, req.AmountPlanned, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount_planned": req.AmountPlanned})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories handles the retrieval of the caller's categories
// @Summary     List categories
// @Description List the caller's categories with derived spend aggregates; supports search on name/type name and ordering by name or planned amount
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       search query string false "Search by name or type name"
// @Param       ordering query string false "Order by name or amount_planned, prefix with - for descending"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[services.CategoryDetail] "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	opts := services.ListOptions{Search: query.Search, Ordering: query.Ordering}
	result, err := h.categoryService.ListCategories(userID, query.PageRequest, opts)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategory handles the retrieval of a single category
// @Summary     Get category
// @Description Get a category with amount_actual and amount_left; pass rl=true to attach its transactions
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       rl query bool false "Include related transactions"
// @Success     200 {object} services.CategoryDetail "Category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !includeRelated(c) {
		c.JSON(http.StatusOK, gin.H{"category": category})
		return
	}

	transactions, err := h.categoryService.GetCategoryTransactions(userID, category.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trimmed := make([]trimmedTransaction, len(transactions))
	for i, t := range transactions {
		trimmed[i] = trimmedTransaction{ID: t.ID, Date: t.Date, Amount: t.Amount, Description: t.Description}
	}

	c.JSON(http.StatusOK, gin.H{
		"category":     category,
		"transactions": trimmed,
	})
}

// GetCategoryTransactions handles listing a category's transactions
// @Summary     Get category transactions
// @Description List transactions recorded against a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {array} models.Transaction "Transactions"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id}/transactions [get]
func (h *CategoryHandler) GetCategoryTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.categoryService.GetCategoryTransactions(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Update one of the caller's categories
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated fields"
// @Success     200 {object} services.CategoryDetail "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, c.Param("id"), req.Name, req.CategoryTypeID, req.AmountPlanned, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category; its transactions keep existing with the category reference cleared
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID := c.Param("id")
	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
