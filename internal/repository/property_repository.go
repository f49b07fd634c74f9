package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/openlot/propfinder/api/internal/database"
	"github.com/openlot/propfinder/api/internal/models"
)

// SearchQuery carries the store-level predicates for a property search.
// The radius filter is deliberately absent: it is applied after the query by
// the service layer, since it depends on a reference point resolved from the
// zip code.
type SearchQuery struct {
	ZipCode      *string
	MinPrice     *float64
	MaxPrice     *float64
	MinSize      *int
	MaxSize      *int
	Bedrooms     *int
	BathroomsMin *float64
	PropertyType *string
	MinScore     *float64
	Skip         int
	Limit        int
}

// PropertyRepository defines the interface for property data access.
type PropertyRepository interface {
	// Search returns properties matching the query predicates, ordered by
	// profitability_score descending with id ascending as tie-break, with
	// skip/limit applied. Returns an empty slice when nothing matches.
	Search(ctx context.Context, q SearchQuery) ([]models.Property, error)

	// FindByID returns the property with the given id.
	// Returns nil, nil when no property exists (not an error).
	FindByID(ctx context.Context, id int64) (*models.Property, error)

	// FindZipReference returns the first property with the given zip code
	// and non-null coordinates, used as the radius-filter reference point.
	// Returns nil, nil when no such property exists.
	FindZipReference(ctx context.Context, zipCode string) (*models.Property, error)

	// Create inserts a property and backfills its ID and CreatedAt.
	Create(ctx context.Context, p *models.Property) error
}

// propertyRepository is the concrete implementation of PropertyRepository.
type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id,
	address,
	city,
	state,
	zip_code,
	price,
	size_sqft,
	bedrooms,
	bathrooms,
	property_type,
	year_built,
	image_url,
	lat,
	lng,
	profitability_score,
	estimated_rent,
	created_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.Price,
		&p.SizeSqft,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.PropertyType,
		&p.YearBuilt,
		&p.ImageURL,
		&p.Lat,
		&p.Lng,
		&p.ProfitabilityScore,
		&p.EstimatedRent,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Search builds a dynamic WHERE clause from the present predicates and runs
// the paginated query. Ordering is profitability_score DESC, id ASC so that
// repeated identical queries return rows in a stable order.
func (r *propertyRepository) Search(ctx context.Context, q SearchQuery) ([]models.Property, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if q.ZipCode != nil {
		addCondition("zip_code = $%d", *q.ZipCode)
	}
	if q.MinPrice != nil {
		addCondition("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		addCondition("price <= $%d", *q.MaxPrice)
	}
	if q.MinSize != nil {
		addCondition("size_sqft >= $%d", *q.MinSize)
	}
	if q.MaxSize != nil {
		addCondition("size_sqft <= $%d", *q.MaxSize)
	}
	if q.Bedrooms != nil {
		addCondition("bedrooms = $%d", *q.Bedrooms)
	}
	if q.BathroomsMin != nil {
		addCondition("bathrooms >= $%d", *q.BathroomsMin)
	}
	if q.PropertyType != nil {
		addCondition("property_type ILIKE $%d", "%"+*q.PropertyType+"%")
	}
	if q.MinScore != nil {
		addCondition("profitability_score >= $%d", *q.MinScore)
	}

	query := "SELECT" + propertyColumns + " FROM properties"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(
		" ORDER BY profitability_score DESC, id ASC OFFSET $%d LIMIT $%d",
		len(args)+1, len(args)+2,
	)
	args = append(args, q.Skip, q.Limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, nil
}

// FindByID returns the property with the given id, or nil, nil when absent.
func (r *propertyRepository) FindByID(ctx context.Context, id int64) (*models.Property, error) {
	query := "SELECT" + propertyColumns + " FROM properties WHERE id = $1"

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %d: %w", id, err)
	}
	return p, nil
}

// FindZipReference returns the first property in the zip code that has
// coordinates. Row order is id ascending, mirroring insertion order.
func (r *propertyRepository) FindZipReference(ctx context.Context, zipCode string) (*models.Property, error) {
	query := "SELECT" + propertyColumns + ` FROM properties
		WHERE zip_code = $1 AND lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY id ASC
		LIMIT 1`

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, zipCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query zip reference for %q: %w", zipCode, err)
	}
	return p, nil
}

// Create inserts a property row and backfills the generated id and created_at.
func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (
			address, city, state, zip_code, price, size_sqft, bedrooms,
			bathrooms, property_type, year_built, image_url, lat, lng,
			profitability_score, estimated_rent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		p.Address,
		p.City,
		p.State,
		p.ZipCode,
		p.Price,
		p.SizeSqft,
		p.Bedrooms,
		p.Bathrooms,
		p.PropertyType,
		p.YearBuilt,
		p.ImageURL,
		p.Lat,
		p.Lng,
		p.ProfitabilityScore,
		p.EstimatedRent,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}
