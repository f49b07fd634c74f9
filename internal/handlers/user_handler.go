package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/openlot/propfinder/api/internal/apierrors"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/services"
)

// UserHandler handles profile HTTP requests. All routes require
// authentication.
type UserHandler struct {
	service services.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfileRequest represents the body for the profile update endpoint.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
}

// GetProfile handles GET /api/v1/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	profile, err := h.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	update := services.ProfileUpdate{
		Address: req.Address,
		Phone:   req.Phone,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			apierrors.BadRequest(c, "date_of_birth must be YYYY-MM-DD", nil)
			return
		}
		update.DateOfBirth = &dob
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), user.ID, update)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
