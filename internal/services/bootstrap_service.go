package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/models"
)

// bootstrapService provisions the admin account and the default rows new
// users start with. Every operation is explicit and idempotent: defaults
// are created by the startup sequence and the registration workflow, never
// by row-creation hooks, so the admin-before-users ordering is guaranteed
// by construction.
type bootstrapService struct {
	db             *gorm.DB
	userService    UserServicer
	profileService ProfileServicer

	adminUsername string
	adminEmail    string
	adminPassword string

	// adminID is cached after EnsureAdmin resolves the system owner.
	adminID string
}

// NewBootstrapService creates a new BootstrapServicer.
func NewBootstrapService(db *gorm.DB, userService UserServicer, profileService ProfileServicer, adminUsername, adminEmail, adminPassword string) BootstrapServicer {
	return &bootstrapService{
		db:             db,
		userService:    userService,
		profileService: profileService,
		adminUsername:  adminUsername,
		adminEmail:     adminEmail,
		adminPassword:  adminPassword,
	}
}

// EnsureAdmin resolves the system-owner account, creating it together with
// the default category types on first startup. Must run before any regular
// user is provisioned.
func (s *bootstrapService) EnsureAdmin() (*models.User, error) {
	admin, err := s.userService.GetUserByUsername(s.adminUsername)
	if err == nil {
		s.adminID = admin.ID
		if _, err := s.EnsureDefaultCategoryTypes(admin.ID); err != nil {
			return nil, err
		}
		return admin, nil
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrUserNotFound.Code {
		return nil, err
	}

	if s.adminPassword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"ADMIN_PASSWORD must be set to provision the admin account")
	}

	admin, err = s.userService.CreateUser(s.adminUsername, s.adminEmail, s.adminPassword, true, true)
	if err != nil {
		return nil, err
	}
	logger.Get().Infow("provisioned admin account", "username", s.adminUsername)

	s.adminID = admin.ID
	if _, err := s.EnsureDefaultCategoryTypes(admin.ID); err != nil {
		return nil, err
	}
	return admin, nil
}

// EnsureDefaultCategoryTypes creates any of the three default category
// types that do not exist yet for the admin, and returns all of them.
// Safe to call repeatedly; existing rows are never duplicated.
func (s *bootstrapService) EnsureDefaultCategoryTypes(adminID string) ([]models.CategoryType, error) {
	var existing []models.CategoryType
	err := s.db.Where("user_id = ? AND name IN ?", adminID, models.DefaultCategoryTypes).
		Find(&existing).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Name] = true
	}

	for _, name := range models.DefaultCategoryTypes {
		if have[name] {
			continue
		}
		categoryType := models.CategoryType{Name: name, UserID: &adminID}
		if err := s.db.Create(&categoryType).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		existing = append(existing, categoryType)
		logger.Get().Infow("created default category type", "name", name)
	}

	return existing, nil
}

// EnsureUserDefaults creates the fixed default categories for a user,
// linked to the admin-owned expenditure type. Categories the user already
// has (by name) are skipped. Fails if the defaults were never provisioned.
func (s *bootstrapService) EnsureUserDefaults(userID string) ([]models.Category, error) {
	if s.adminID == "" {
		return nil, apperrors.ErrDefaultsNotProvisioned
	}

	var expenditure models.CategoryType
	err := s.db.Where("user_id = ? AND name = ?", s.adminID, "expenditure").
		First(&expenditure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDefaultsNotProvisioned
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existingNames []string
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ?", userID).
		Pluck("name", &existingNames).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	have := make(map[string]bool, len(existingNames))
	for _, name := range existingNames {
		have[name] = true
	}

	created := make([]models.Category, 0, len(defaultCategories))
	for _, def := range defaultCategories {
		if have[def.Name] {
			continue
		}
		category := models.Category{
			UserID:         userID,
			Name:           def.Name,
			CategoryTypeID: &expenditure.ID,
			AmountPlanned:  0,
			Description:    def.Description,
		}
		if err := s.db.Create(&category).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, category)
	}

	return created, nil
}

// ProvisionUser runs the post-registration workflow for a non-admin user:
// create their profile and seed their default categories.
func (s *bootstrapService) ProvisionUser(userID string) error {
	if _, err := s.profileService.CreateProfile(userID); err != nil {
		return err
	}
	if _, err := s.EnsureUserDefaults(userID); err != nil {
		return err
	}
	return nil
}
