package repository

import (
	"database/sql"

	"github.com/outreachworks/canvass-backend/internal/model"
)

// OrganizationRepositoryInterface defines methods used by services
type OrganizationRepositoryInterface interface {
	GetByID(id int) (*model.Organization, error)
}

// OrganizationRepository is the concrete implementation
type OrganizationRepository struct {
	DB *sql.DB
}

// GetByID fetches an organization by ID
func (r *OrganizationRepository) GetByID(id int) (*model.Organization, error) {
	query := `
        SELECT id, uuid, name, features
        FROM organization
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var o model.Organization
	if err := row.Scan(&o.ID, &o.UUID, &o.Name, &o.Features); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &o, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
