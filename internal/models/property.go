package models

import (
	"time"
)

// Property type values stored in the property_type column. Free-form strings
// are accepted at ingestion; the scorer normalizes before its table lookup.
const (
	TypeSingleFamily = "single_family"
	TypeTownhouse    = "townhouse"
	TypeCondo        = "condo"
	TypeMultiFamily  = "multi_family"
	TypeLand         = "land"
	TypeOther        = "other"
)

// Property represents a real estate listing.
// All nullable columns use pointers to distinguish between zero values and NULL.
// ProfitabilityScore and EstimatedRent are derived at creation time from the
// listing attributes and are never recomputed on read.
type Property struct {
	CreatedAt          time.Time `json:"created_at"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	ZipCode            string    `json:"zip_code"`
	PropertyType       string    `json:"property_type"`
	ImageURL           *string   `json:"image_url,omitempty"`
	YearBuilt          *int      `json:"year_built,omitempty"`
	Lat                *float64  `json:"lat,omitempty"`
	Lng                *float64  `json:"lng,omitempty"`
	EstimatedRent      *float64  `json:"estimated_rent,omitempty"`
	Price              float64   `json:"price"`
	Bathrooms          float64   `json:"bathrooms"`
	ProfitabilityScore float64   `json:"profitability_score"`
	SizeSqft           int       `json:"size_sqft"`
	Bedrooms           int       `json:"bedrooms"`
	ID                 int64     `json:"id"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (p *Property) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}
