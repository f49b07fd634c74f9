package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/openlot/propfinder/api/internal/apierrors"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/services"
)

// FavoriteHandler handles saved-listing HTTP requests. All routes require
// authentication.
type FavoriteHandler struct {
	service services.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler instance.
func NewFavoriteHandler(service services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// AddFavoriteRequest represents the body for the favorite creation endpoint.
type AddFavoriteRequest struct {
	PropertyID int64 `json:"property_id" binding:"required,gt=0"`
}

// FavoriteResponse represents a single favorite with its property details.
type FavoriteResponse struct {
	Property  services.PropertySnapshot `json:"property"`
	CreatedAt string                    `json:"created_at"`
	ID        int64                     `json:"id"`
}

// FavoriteListResponse represents the response for the favorite listing
// endpoint.
type FavoriteListResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
	Count     int                `json:"count"`
}

func newFavoriteResponse(f services.FavoriteWithProperty) FavoriteResponse {
	return FavoriteResponse{
		Property:  f.Property,
		CreatedAt: f.Favorite.CreatedAt.Format(time.RFC3339),
		ID:        f.Favorite.ID,
	}
}

// List handles GET /api/v1/favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	favorites, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list favorites", err)
		return
	}

	responses := make([]FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		responses = append(responses, newFavoriteResponse(f))
	}

	c.JSON(http.StatusOK, FavoriteListResponse{
		Favorites: responses,
		Count:     len(responses),
	})
}

// Add handles POST /api/v1/favorites.
func (h *FavoriteHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	favorite, err := h.service.Add(c.Request.Context(), user.ID, req.PropertyID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrAlreadyFavorited):
			apierrors.Conflict(c, "Property already favorited")
		default:
			apierrors.InternalServerError(c, "Failed to add favorite", err)
		}
		return
	}

	c.JSON(http.StatusCreated, newFavoriteResponse(*favorite))
}

// Remove handles DELETE /api/v1/favorites/:id.
// The id is the favorite's own id, not the property id.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)

	favoriteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Favorite id must be an integer", nil)
		return
	}

	if err := h.service.Remove(c.Request.Context(), user.ID, favoriteID); err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			apierrors.NotFound(c, "Favorite not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to remove favorite", err)
		return
	}

	c.Status(http.StatusNoContent)
}
