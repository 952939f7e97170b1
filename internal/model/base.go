package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Owned is implemented by every entity that records its creator.
type Owned struct {
	OwnerID *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
}

// Owner returns the owning user, nil when the record is orphaned.
func (o Owned) Owner() *uuid.UUID {
	return o.OwnerID
}

// ListFilter scopes list queries. A nil OwnerID lists every record;
// IncludeOrphans adds records without an owner to an owner-scoped list.
// Search matches text fields, or the status for mailings and attempts.
type ListFilter struct {
	OwnerID        *uuid.UUID
	IncludeOrphans bool
	Search         string
}
