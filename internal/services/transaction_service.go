package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// transactionService handles transaction business logic. Transactions are
// strictly per-user.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// resolveCategory checks that a category belongs to the requester before a
// transaction is recorded against it.
func (s *transactionService) resolveCategory(userID, categoryID string) error {
	var count int64
	err := s.db.Model(&models.Category{}).
		Scopes(OwnedBy(userID)).
		Where("id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateTransaction records a transaction for the requester. A zero date
// defaults to the current time.
func (s *transactionService) CreateTransaction(userID string, date time.Time, amount float64, description string, comment *string, categoryID *string) (*models.Transaction, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction description is required")
	}

	if categoryID != nil {
		if err := s.resolveCategory(userID, *categoryID); err != nil {
			return nil, err
		}
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Amount:      amount,
		Description: description,
		Comment:     comment,
		CategoryID:  categoryID,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// transactionOrderings maps the external ordering names to SQL columns.
// "category__name" orders by the joined category's name.
var transactionOrderings = map[string]string{
	"date":           "transactions.date",
	"amount":         "transactions.amount",
	"category__name": "categories.name",
}

// ListTransactions retrieves the requester's transactions, optionally
// filtered by a date/description search and ordered by date, amount, or
// category name.
func (s *transactionService) ListTransactions(userID string, page pagination.PageRequest, opts ListOptions) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Scopes(OwnedBy(userID))

	if opts.Search != "" {
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		base = base.Where(
			"LOWER(transactions.description) LIKE ? OR CAST(transactions.date AS TEXT) LIKE ?",
			pattern, "%"+opts.Search+"%",
		)
	}

	order, err := orderClause(opts.Ordering, transactionOrderings, "transactions.date DESC")
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(order, "categories.") {
		base = base.Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Preload("Category").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves one of the requester's transactions. Foreign
// rows are not found, never forbidden.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Scopes(OwnedBy(userID)).
		Where("id = ?", transactionID).
		Preload("Category").
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates one of the requester's transactions.
func (s *transactionService) UpdateTransaction(userID, transactionID string, date *time.Time, amount *float64, description, comment *string, categoryID *string) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if date != nil {
		updates["date"] = *date
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if description != nil {
		if *description == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction description is required")
		}
		updates["description"] = *description
	}
	if comment != nil {
		updates["comment"] = *comment
	}
	if categoryID != nil {
		if *categoryID != "" {
			if err := s.resolveCategory(userID, *categoryID); err != nil {
				return nil, err
			}
			updates["category_id"] = *categoryID
		} else {
			updates["category_id"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes one of the requester's transactions.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
