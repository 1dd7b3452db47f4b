package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// AuthorizationError means the acting user lacks the required role.
// It always aborts before any write.
type AuthorizationError struct {
	UserID         int
	OrganizationID int
	Role           string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %d requires role %s on organization %d", e.UserID, e.Role, e.OrganizationID)
}

func NewAuthorizationError(userID, organizationID int, role string) error {
	return &AuthorizationError{UserID: userID, OrganizationID: organizationID, Role: role}
}

// ValidationError is malformed input that cannot be coerced.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
