package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// profileService handles profile-related business logic.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// CreateProfile creates an empty profile for a user. Called by the
// provisioning workflow; creating a second profile for the same user is a
// no-op returning the existing one.
func (s *profileService) CreateProfile(userID string) (*models.Profile, error) {
	var existing models.Profile
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile := &models.Profile{UserID: userID}
	if err := s.db.Create(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// ListProfiles retrieves a paginated list of all profiles. Any authenticated
// user may browse profiles.
func (s *profileService) ListProfiles(page pagination.PageRequest) (*pagination.PageResponse[models.Profile], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Profile{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var profiles []models.Profile
	if err := base.Scopes(pagination.Paginate(page)).Preload("User").Find(&profiles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(profiles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProfileByUsername retrieves a profile by the owner's username.
func (s *profileService) GetProfileByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ?", username).
		Preload("User").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateProfile updates a profile. Only the owner may edit; anyone
// authenticated may read, so a foreign edit is forbidden rather than
// not-found.
func (s *profileService) UpdateProfile(requesterID, username string, bio *string) (*models.Profile, error) {
	profile, err := s.GetProfileByUsername(username)
	if err != nil {
		return nil, err
	}

	if profile.UserID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	if bio != nil {
		if err := s.db.Model(profile).Update("bio", *bio).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return profile, nil
}

// SetAvatar stores the path of a processed avatar image on the profile.
func (s *profileService) SetAvatar(requesterID, username, avatarPath string) (*models.Profile, error) {
	profile, err := s.GetProfileByUsername(username)
	if err != nil {
		return nil, err
	}

	if profile.UserID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.Model(profile).Update("avatar", avatarPath).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return profile, nil
}
