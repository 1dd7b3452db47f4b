package repository

import (
	"database/sql"

	"github.com/outreachworks/canvass-backend/internal/model"
)

type UserRepositoryInterface interface {
	GetByID(id int) (*model.User, error)
	GetOrganizationRole(userID, organizationID int) (string, error)
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `SELECT id, email, is_superadmin FROM "user" WHERE id=$1`
	var u model.User
	if err := r.DB.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.IsSuperadmin); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetOrganizationRole returns the user's role on the organization, or
// empty string when there is no membership row.
func (r *UserRepository) GetOrganizationRole(userID, organizationID int) (string, error) {
	query := `SELECT role FROM user_organization WHERE user_id=$1 AND organization_id=$2`
	var role string
	err := r.DB.QueryRow(query, userID, organizationID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return role, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
