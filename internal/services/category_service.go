package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// categoryService handles category business logic. Categories are strictly
// per-user; the admin ID is only needed to resolve visible category types
// when a category is classified.
type categoryService struct {
	db      *gorm.DB
	adminID string
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, adminID string) CategoryServicer {
	return &categoryService{db: db, adminID: adminID}
}

// spendTotal is the grouped aggregation row for one category.
type spendTotal struct {
	CategoryID string
	Total      float64
}

// attachSpendTotals computes amount_actual and amount_left for a slice of
// categories with a single grouped query. The aggregates are derived on
// every read and never persisted.
func attachSpendTotals(db *gorm.DB, categories []models.Category) ([]CategoryDetail, error) {
	details := make([]CategoryDetail, len(categories))
	if len(categories) == 0 {
		return details, nil
	}

	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	var totals []spendTotal
	err := db.Model(&models.Transaction{}).
		Select("category_id, SUM(amount) AS total").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalByID := make(map[string]float64, len(totals))
	for _, t := range totals {
		totalByID[t.CategoryID] = t.Total
	}

	for i, c := range categories {
		actual := totalByID[c.ID]
		details[i] = CategoryDetail{
			Category:     c,
			AmountActual: actual,
			AmountLeft:   c.AmountPlanned - actual,
		}
	}
	return details, nil
}

// checkNameUnique enforces per-user name uniqueness. Exact string equality,
// no normalization; excludeID skips the row being updated.
func (s *categoryService) checkNameUnique(userID, name, excludeID string) error {
	q := s.db.Model(&models.Category{}).
		Scopes(OwnedBy(userID)).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrDuplicateName, name+" category already exists")
	}
	return nil
}

// resolveCategoryType checks that a category type is visible to the
// requester before a category is linked to it.
func (s *categoryService) resolveCategoryType(userID, typeID string) error {
	var count int64
	err := s.db.Model(&models.CategoryType{}).
		Scopes(OwnedOrDefault(userID, s.adminID)).
		Where("id = ?", typeID).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryTypeNotFound
	}
	return nil
}

// CreateCategory creates a new category for the requester.
func (s *categoryService) CreateCategory(userID, name string, categoryTypeID *string, amountPlanned float64, description string) (*CategoryDetail, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.checkNameUnique(userID, name, ""); err != nil {
		return nil, err
	}

	if categoryTypeID != nil {
		if err := s.resolveCategoryType(userID, *categoryTypeID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		UserID:         userID,
		Name:           name,
		CategoryTypeID: categoryTypeID,
		AmountPlanned:  amountPlanned,
		Description:    description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// A fresh category has no transactions.
	return &CategoryDetail{Category: *category, AmountActual: 0, AmountLeft: category.AmountPlanned}, nil
}

// categoryOrderings maps the external ordering names to SQL columns.
var categoryOrderings = map[string]string{
	"name":           "categories.name",
	"amount_planned": "categories.amount_planned",
}

// ListCategories retrieves the requester's categories with aggregates,
// optionally filtered by a name/type-name search and ordered by name or
// planned amount.
func (s *categoryService) ListCategories(userID string, page pagination.PageRequest, opts ListOptions) (*pagination.PageResponse[CategoryDetail], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Scopes(OwnedBy(userID))

	if opts.Search != "" {
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		base = base.
			Joins("LEFT JOIN category_types ON category_types.id = categories.category_type_id").
			Where("LOWER(categories.name) LIKE ? OR LOWER(category_types.name) LIKE ?", pattern, pattern)
	}

	order, err := orderClause(opts.Ordering, categoryOrderings, "categories.name")
	if err != nil {
		return nil, err
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Preload("CategoryType").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	details, err := attachSpendTotals(s.db, categories)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(details, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves one of the requester's categories with its
// aggregates. Foreign rows are not found, never forbidden.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*CategoryDetail, error) {
	var category models.Category
	err := s.db.Scopes(OwnedBy(userID)).
		Where("id = ?", categoryID).
		Preload("CategoryType").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	details, err := attachSpendTotals(s.db, []models.Category{category})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// GetCategoryTransactions returns the transactions recorded against one of
// the requester's categories, newest first.
func (s *categoryService) GetCategoryTransactions(userID, categoryID string) ([]models.Transaction, error) {
	if _, err := s.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err := s.db.Scopes(OwnedBy(userID)).
		Where("category_id = ?", categoryID).
		Order("date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// UpdateCategory updates an existing category. Renaming to the current name
// is a no-op success; renaming onto another of the requester's categories is
// a duplicate-name validation error.
func (s *categoryService) UpdateCategory(userID, categoryID, name string, categoryTypeID *string, amountPlanned *float64, description *string) (*CategoryDetail, error) {
	detail, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		if err := s.checkNameUnique(userID, name, categoryID); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if categoryTypeID != nil {
		if *categoryTypeID != "" {
			if err := s.resolveCategoryType(userID, *categoryTypeID); err != nil {
				return nil, err
			}
			updates["category_type_id"] = *categoryTypeID
		} else {
			updates["category_type_id"] = nil
		}
	}
	if amountPlanned != nil {
		updates["amount_planned"] = *amountPlanned
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&detail.Category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetCategoryByID(userID, categoryID)
}

// DeleteCategory deletes a category. Transactions recorded against it
// survive with their category reference cleared.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	detail, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&detail.Category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// orderClause translates an external ordering parameter ("name" or "-name")
// into a SQL ORDER BY clause using the endpoint's allowed columns.
func orderClause(ordering string, allowed map[string]string, fallback string) (string, error) {
	if ordering == "" {
		return fallback, nil
	}

	desc := false
	if strings.HasPrefix(ordering, "-") {
		desc = true
		ordering = ordering[1:]
	}

	column, ok := allowed[ordering]
	if !ok {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported ordering field: "+ordering)
	}
	if desc {
		return column + " DESC", nil
	}
	return column, nil
}
