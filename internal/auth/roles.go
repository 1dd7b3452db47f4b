// internal/auth/roles.go
package auth

import (
	appErrors "github.com/outreachworks/canvass-backend/internal/errors"
	"github.com/outreachworks/canvass-backend/internal/model"
)

const (
	RoleTexter         = "TEXTER"
	RoleSupervolunteer = "SUPERVOLUNTEER"
	RoleAdmin          = "ADMIN"
	RoleOwner          = "OWNER"
)

var roleRank = map[string]int{
	RoleTexter:         0,
	RoleSupervolunteer: 1,
	RoleAdmin:          2,
	RoleOwner:          3,
}

// RoleAtLeast reports whether have satisfies want in the role hierarchy.
func RoleAtLeast(have, want string) bool {
	h, ok := roleRank[have]
	if !ok {
		return false
	}
	return h >= roleRank[want]
}

// MembershipRepository is the slice of the user repository the access
// check needs.
type MembershipRepository interface {
	GetOrganizationRole(userID, organizationID int) (string, error)
}

// AccessRequired fails with an AuthorizationError unless the user holds
// at least the given role on the organization. Superadmins pass every
// check when allowSuperadmin is set.
func AccessRequired(repo MembershipRepository, user *model.User, organizationID int, role string, allowSuperadmin bool) error {
	if user == nil {
		return appErrors.NewAuthorizationError(0, organizationID, role)
	}
	if allowSuperadmin && user.IsSuperadmin {
		return nil
	}
	have, err := repo.GetOrganizationRole(user.ID, organizationID)
	if err != nil {
		return err
	}
	if !RoleAtLeast(have, role) {
		return appErrors.NewAuthorizationError(user.ID, organizationID, role)
	}
	return nil
}
