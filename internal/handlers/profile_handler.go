package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"budgetbuddy/internal/config"
	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

// avatarMaxDim bounds the longer edge of stored avatar images.
const avatarMaxDim = 512

// ProfileHandler handles profile requests. Profiles are readable by any
// authenticated user but editable only by their owner.
type ProfileHandler struct {
	profileService services.ProfileServicer
	auditService   services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, auditService: auditService}
}

// UpdateProfileRequest represents the payload for editing a profile.
type UpdateProfileRequest struct {
	Bio *string `json:"bio" binding:"omitempty,max=150"`
}

// ListProfiles handles the retrieval of all profiles
// @Summary     List profiles
// @Description List all user profiles
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Profile] "Profiles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.profileService.ListProfiles(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProfile handles retrieving a profile by username
// @Summary     Get profile
// @Description Get a user's profile by username
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Success     200 {object} models.Profile "Profile"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /profiles/{username} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUsername(c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile handles editing a profile
// @Summary     Update profile
// @Description Update your own profile; editing another user's profile is forbidden
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Param       request body UpdateProfileRequest true "Updated fields"
// @Success     200 {object} models.Profile "Updated profile"
// @Failure     403 {object} ErrorResponse "Not your profile"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /profiles/{username} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, c.Param("username"), req.Bio)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROFILE", "profile", profile.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UploadAvatar handles avatar image uploads
// @Summary     Upload avatar
// @Description Upload an avatar image for your own profile; the image is resized and stored as JPEG
// @Tags        profiles
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Param       avatar formData file true "Avatar image"
// @Success     200 {object} models.Profile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid image"
// @Failure     403 {object} ErrorResponse "Not your profile"
// @Router      /profiles/{username}/avatar [put]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	username := c.Param("username")

	// Check ownership before touching the filesystem.
	profile, err := h.profileService.GetProfileByUsername(username)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if profile.UserID != userID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "avatar file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "avatar must be a valid image"))
		return
	}
	img = imaging.Fit(img, avatarMaxDim, avatarMaxDim, imaging.Lanczos)

	avatarDir := filepath.Join(config.Get().UploadDir, "avatars")
	if err := os.MkdirAll(avatarDir, 0o755); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	avatarPath := filepath.Join(avatarDir, username+".jpg")
	if err := imaging.Save(img, avatarPath, imaging.JPEGQuality(85)); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	profile, err = h.profileService.SetAvatar(userID, username, avatarPath)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_AVATAR", "profile", profile.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
