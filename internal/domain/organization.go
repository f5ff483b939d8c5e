// Package domain holds the entity types the store persists and the
// repositories mutate. Entities carry their own transition logic
// (Can/Apply pairs) so repositories stay thin over the store.
package domain

import (
	"time"

	id "wardflow/pkg/domain"
)

// Organization is the intended tenant root. Wards reference it, but no
// per-organization isolation is enforced anywhere yet.
type Organization struct {
	ID              id.OrganizationID `json:"id"`
	LongName        string            `json:"long_name"`
	ShortName       string            `json:"short_name"`
	ContactEmail    string            `json:"contact_email"`
	IsEmailVerified bool              `json:"is_email_verified"`
	CreatedAt       time.Time         `json:"created_at"`
}
