package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/openlot/propfinder/api/internal/apierrors"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/services"
)

// PropertyHandler handles property search and ingestion HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// SearchRequest represents the query parameters for the search endpoint.
// Pointer fields distinguish absent parameters from zero values.
type SearchRequest struct {
	ZipCode      *string  `form:"zip_code"`
	MinPrice     *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"max_price" binding:"omitempty,gte=0"`
	MinSize      *int     `form:"min_size" binding:"omitempty,gte=0"`
	MaxSize      *int     `form:"max_size" binding:"omitempty,gte=0"`
	Bedrooms     *int     `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *float64 `form:"bathrooms" binding:"omitempty,gte=0"`
	PropertyType *string  `form:"property_type"`
	RadiusMiles  *float64 `form:"radius_miles" binding:"omitempty,gte=0,lte=50"`
	MinScore     *float64 `form:"min_score" binding:"omitempty,gte=0,lte=100"`
	Skip         int      `form:"skip" binding:"omitempty,gte=0"`
	Limit        *int     `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// SearchResponse represents the response for the search endpoint.
type SearchResponse struct {
	Properties []services.PropertySnapshot `json:"properties"`
	Count      int                         `json:"count"`
}

// CreatePropertyRequest represents the body for the property creation
// endpoint. Score and rent estimate are derived server-side.
type CreatePropertyRequest struct {
	Address      string   `json:"address" binding:"required"`
	City         string   `json:"city" binding:"required"`
	State        string   `json:"state" binding:"required,len=2"`
	ZipCode      string   `json:"zip_code" binding:"required,max=10"`
	PropertyType string   `json:"property_type" binding:"required"`
	ImageURL     *string  `json:"image_url"`
	YearBuilt    *int     `json:"year_built"`
	Lat          *float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng          *float64 `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	Price        float64  `json:"price" binding:"gte=0"`
	Bathrooms    float64  `json:"bathrooms" binding:"gte=0"`
	SizeSqft     int      `json:"size_sqft" binding:"required,gt=0"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
}

// Search handles GET /api/v1/properties.
// Anonymous requests are allowed; authenticated ones get favorite annotation.
func (h *PropertyHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	filter := services.SearchFilter{
		ZipCode:      req.ZipCode,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinSize:      req.MinSize,
		MaxSize:      req.MaxSize,
		Bedrooms:     req.Bedrooms,
		BathroomsMin: req.Bathrooms,
		PropertyType: req.PropertyType,
		RadiusMiles:  req.RadiusMiles,
		MinScore:     req.MinScore,
		Skip:         req.Skip,
		Limit:        services.DefaultLimit,
	}
	if req.Limit != nil {
		filter.Limit = *req.Limit
	}

	snapshots, err := h.service.Search(c.Request.Context(), filter, currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidFilter) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to search properties", err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Properties: snapshots,
		Count:      len(snapshots),
	})
}

// GetByID handles GET /api/v1/properties/:id.
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Property id must be an integer", nil)
		return
	}

	snapshot, err := h.service.GetByID(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load property", err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Create handles POST /api/v1/properties.
// The profitability score and rent estimate are computed at this point and
// stored with the listing.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	property, err := h.service.Create(c.Request.Context(), services.CreatePropertyInput{
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		PropertyType: req.PropertyType,
		ImageURL:     req.ImageURL,
		YearBuilt:    req.YearBuilt,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Price:        req.Price,
		Bathrooms:    req.Bathrooms,
		SizeSqft:     req.SizeSqft,
		Bedrooms:     req.Bedrooms,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidProperty) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to create property", err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// currentUserID returns the authenticated user's id, or nil for anonymous
// requests.
func currentUserID(c *gin.Context) *int64 {
	if user := middleware.CurrentUser(c); user != nil {
		return &user.ID
	}
	return nil
}
