package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

// BudgetPlanHandler handles budget plan requests.
type BudgetPlanHandler struct {
	budgetPlanService services.BudgetPlanServicer
	auditService      services.AuditServicer
}

// NewBudgetPlanHandler creates a new BudgetPlanHandler.
func NewBudgetPlanHandler(budgetPlanService services.BudgetPlanServicer, auditService services.AuditServicer) *BudgetPlanHandler {
	return &BudgetPlanHandler{budgetPlanService: budgetPlanService, auditService: auditService}
}

// CreateBudgetPlanRequest represents the payload for creating a budget plan.
type CreateBudgetPlanRequest struct {
	Name            string    `json:"name" binding:"required,min=1,max=100"`
	Date            time.Time `json:"date" binding:"required"`
	Description     string    `json:"description"`
	CategoryTypeIDs []string  `json:"category_type_ids"`
}

// UpdateBudgetPlanRequest represents the payload for updating a budget
// plan. Absent fields are left unchanged; category_type_ids replaces the
// full linked set when present.
type UpdateBudgetPlanRequest struct {
	Name            string     `json:"name" binding:"omitempty,min=1,max=100"`
	Date            *time.Time `json:"date"`
	Description     *string    `json:"description"`
	CategoryTypeIDs []string   `json:"category_type_ids"`
}

// trimmedCategoryType is the reduced category type shape attached by the
// ?rl=true expansion.
type trimmedCategoryType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateBudgetPlan handles the creation of a new budget plan
// @Summary     Create a budget plan
// @Description Create a budget plan linked to visible category types
// @Tags        budgetplans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetPlanRequest true "Budget plan details"
// @Success     201 {object} models.BudgetPlan "Budget plan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category type not found"
// @Router      /budgetplans [post]
func (h *BudgetPlanHandler) CreateBudgetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.budgetPlanService.CreateBudgetPlan(userID, req.Name, req.Date, req.Description, req.CategoryTypeIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET_PLAN", "budget_plan", plan.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"budget_plan": plan})
}

// ListBudgetPlans handles the retrieval of visible budget plans
// @Summary     List budget plans
// @Description List the caller's budget plans plus any global defaults
// @Tags        budgetplans
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.BudgetPlan] "Budget plans"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgetplans [get]
func (h *BudgetPlanHandler) ListBudgetPlans(c *gin.Context) {
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

	result, err := h.budgetPlanService.ListBudgetPlans(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetPlan handles the retrieval of a single budget plan
// @Summary     Get budget plan
// @Description Get a budget plan; pass rl=true to attach its category types
// @Tags        budgetplans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget plan ID"
// @Param       rl query bool false "Include related category types"
// @Success     200 {object} models.BudgetPlan "Budget plan"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgetplans/{id} [get]
func (h *BudgetPlanHandler) GetBudgetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.budgetPlanService.GetBudgetPlanByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !includeRelated(c) {
		c.JSON(http.StatusOK, gin.H{"budget_plan": plan})
		return
	}

	types, err := h.budgetPlanService.GetPlanCategoryTypes(userID, plan.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trimmed := make([]trimmedCategoryType, len(types))
	for i, t := range types {
		trimmed[i] = trimmedCategoryType{ID: t.ID, Name: t.Name}
	}

	c.JSON(http.StatusOK, gin.H{
		"budget_plan":    plan,
		"category_types": trimmed,
	})
}

// UpdateBudgetPlan handles updating a budget plan
// @Summary     Update budget plan
// @Description Update one of the caller's budget plans
// @Tags        budgetplans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget plan ID"
// @Param       request body UpdateBudgetPlanRequest true "Updated fields"
// @Success     200 {object} models.BudgetPlan "Updated budget plan"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgetplans/{id} [put]
func (h *BudgetPlanHandler) UpdateBudgetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.budgetPlanService.UpdateBudgetPlan(userID, c.Param("id"), req.Name, req.Date, req.Description, req.CategoryTypeIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET_PLAN", "budget_plan", plan.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"budget_plan": plan})
}

// DeleteBudgetPlan handles deleting a budget plan
// @Summary     Delete budget plan
// @Description Delete one of the caller's budget plans
// @Tags        budgetplans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget plan ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgetplans/{id} [delete]
func (h *BudgetPlanHandler) DeleteBudgetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID := c.Param("id")
	if err := h.budgetPlanService.DeleteBudgetPlan(userID, planID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_PLAN", "budget_plan", planID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget plan deleted successfully"})
}
