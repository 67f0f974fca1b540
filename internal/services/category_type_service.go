package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// categoryTypeService handles category type business logic. The admin ID is
// the system-owner account resolved once at startup; all visibility queries
// take it as an explicit parameter instead of looking the admin up by name.
type categoryTypeService struct {
	db      *gorm.DB
	adminID string
}

// NewCategoryTypeService creates a new CategoryTypeServicer.
func NewCategoryTypeService(db *gorm.DB, adminID string) CategoryTypeServicer {
	return &categoryTypeService{db: db, adminID: adminID}
}

// checkNameUnique enforces name uniqueness within the requester's visible
// scope: their own types plus the admin defaults. Matching is exact string
// equality, no normalization. excludeID skips the row being updated so a
// self-rename is a no-op success.
func (s *categoryTypeService) checkNameUnique(userID, name, excludeID string) error {
	q := s.db.Model(&models.CategoryType{}).
		Scopes(OwnedOrDefault(userID, s.adminID)).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrDuplicateName, name+" category type already exists")
	}
	return nil
}

// CreateCategoryType creates a category type owned by the requester.
func (s *categoryTypeService) CreateCategoryType(userID, name string) (*models.CategoryType, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type name is required")
	}

	if err := s.checkNameUnique(userID, name, ""); err != nil {
		return nil, err
	}

	categoryType := &models.CategoryType{
		Name:   name,
		UserID: &userID,
	}
	if err := s.db.Create(categoryType).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return categoryType, nil
}

// ListCategoryTypes retrieves the requester's visible category types: their
// own plus the admin-owned defaults.
func (s *categoryTypeService) ListCategoryTypes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryType], error) {
	page.Defaults()

	base := s.db.Model(&models.CategoryType{}).Scopes(OwnedOrDefault(userID, s.adminID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var types []models.CategoryType
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&types).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(types, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryTypeByID retrieves a visible category type. Rows outside the
// visible scope are reported as not found, never as forbidden.
func (s *categoryTypeService) GetCategoryTypeByID(userID, typeID string) (*models.CategoryType, error) {
	var categoryType models.CategoryType
	err := s.db.Scopes(OwnedOrDefault(userID, s.adminID)).
		Where("id = ?", typeID).
		First(&categoryType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryTypeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &categoryType, nil
}

// GetTypeCategories returns the requester's categories classified under the
// given type, with spend aggregates. Other users' categories under a shared
// default type are never exposed.
func (s *categoryTypeService) GetTypeCategories(userID, typeID string) ([]CategoryDetail, error) {
	if _, err := s.GetCategoryTypeByID(userID, typeID); err != nil {
		return nil, err
	}

	var categories []models.Category
	err := s.db.Scopes(OwnedBy(userID)).
		Where("category_type_id = ?", typeID).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return attachSpendTotals(s.db, categories)
}

// UpdateCategoryType renames a category type. Only the owner may rename;
// renaming a visible admin-owned default is forbidden for non-admins.
func (s *categoryTypeService) UpdateCategoryType(userID, typeID, name string) (*models.CategoryType, error) {
	categoryType, err := s.GetCategoryTypeByID(userID, typeID)
	if err != nil {
		return nil, err
	}

	if categoryType.UserID == nil || *categoryType.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type name is required")
	}

	if err := s.checkNameUnique(userID, name, typeID); err != nil {
		return nil, err
	}

	if err := s.db.Model(categoryType).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return categoryType, nil
}

// DeleteCategoryType deletes a category type. Categories referencing it keep
// existing with their type reference cleared. The three protected defaults
// may only be deleted by staff.
func (s *categoryTypeService) DeleteCategoryType(userID, typeID string, isStaff bool) error {
	categoryType, err := s.GetCategoryTypeByID(userID, typeID)
	if err != nil {
		return err
	}

	if categoryType.IsDefault(s.adminID) {
		if !isStaff {
			return apperrors.ErrProtectedCategoryType
		}
	} else if categoryType.UserID == nil || *categoryType.UserID != userID {
		return apperrors.ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Soft delete does not fire the SET NULL constraint; clear the
		// references explicitly so categories survive the type.
		if err := tx.Model(&models.Category{}).
			Where("category_type_id = ?", typeID).
			Update("category_type_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(categoryType).Association("BudgetPlans").Clear(); err != nil {
			return err
		}
		return tx.Delete(categoryType).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
