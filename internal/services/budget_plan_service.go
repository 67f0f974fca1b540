package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// budgetPlanService handles budget plan business logic. Plans share the
// category-type visibility rule: admin-owned plans are readable by everyone,
// private plans only by their owner.
type budgetPlanService struct {
	db      *gorm.DB
	adminID string
}

// NewBudgetPlanService creates a new BudgetPlanServicer.
func NewBudgetPlanService(db *gorm.DB, adminID string) BudgetPlanServicer {
	return &budgetPlanService{db: db, adminID: adminID}
}

// resolveCategoryTypes loads the given category types, requiring every one
// of them to be visible to the requester.
func (s *budgetPlanService) resolveCategoryTypes(userID string, typeIDs []string) ([]models.CategoryType, error) {
	if len(typeIDs) == 0 {
		return nil, nil
	}

	var types []models.CategoryType
	err := s.db.Scopes(OwnedOrDefault(userID, s.adminID)).
		Where("id IN ?", typeIDs).
		Find(&types).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(types) != len(typeIDs) {
		return nil, apperrors.ErrCategoryTypeNotFound
	}
	return types, nil
}

// CreateBudgetPlan creates a plan for the requester, optionally linked to
// visible category types.
func (s *budgetPlanService) CreateBudgetPlan(userID, name string, date time.Time, description string, categoryTypeIDs []string) (*models.BudgetPlan, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget plan name is required")
	}

	types, err := s.resolveCategoryTypes(userID, categoryTypeIDs)
	if err != nil {
		return nil, err
	}

	plan := &models.BudgetPlan{
		UserID:        userID,
		Name:          name,
		Date:          date,
		Description:   description,
		CategoryTypes: types,
	}
	if err := s.db.Create(plan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return plan, nil
}

// ListBudgetPlans retrieves the requester's visible plans.
func (s *budgetPlanService) ListBudgetPlans(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPlan], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetPlan{}).Scopes(OwnedOrDefault(userID, s.adminID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var plans []models.BudgetPlan
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(plans, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetPlanByID retrieves a visible plan. Rows outside the visible
// scope are not found, never forbidden.
func (s *budgetPlanService) GetBudgetPlanByID(userID, planID string) (*models.BudgetPlan, error) {
	var plan models.BudgetPlan
	err := s.db.Scopes(OwnedOrDefault(userID, s.adminID)).
		Where("id = ?", planID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// GetPlanCategoryTypes returns the category types linked to a visible plan.
func (s *budgetPlanService) GetPlanCategoryTypes(userID, planID string) ([]models.CategoryType, error) {
	plan, err := s.GetBudgetPlanByID(userID, planID)
	if err != nil {
		return nil, err
	}

	var types []models.CategoryType
	if err := s.db.Model(plan).Association("CategoryTypes").Find(&types); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return types, nil
}

// UpdateBudgetPlan updates one of the requester's plans. Editing a visible
// admin-owned plan is forbidden.
func (s *budgetPlanService) UpdateBudgetPlan(userID, planID, name string, date *time.Time, description *string, categoryTypeIDs []string) (*models.BudgetPlan, error) {
	plan, err := s.GetBudgetPlanByID(userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if date != nil {
		updates["date"] = *date
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(plan).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if categoryTypeIDs != nil {
		types, err := s.resolveCategoryTypes(userID, categoryTypeIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(plan).Association("CategoryTypes").Replace(types); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return plan, nil
}

// DeleteBudgetPlan deletes one of the requester's plans.
func (s *budgetPlanService) DeleteBudgetPlan(userID, planID string) error {
	plan, err := s.GetBudgetPlanByID(userID, planID)
	if err != nil {
		return err
	}
	if plan.UserID != userID {
		return apperrors.ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(plan).Association("CategoryTypes").Clear(); err != nil {
			return err
		}
		return tx.Delete(plan).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
