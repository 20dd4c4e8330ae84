// Package model holds the domain entities, their transport DTOs and the
// sentinel errors services use to report outcomes.
package model

import "time"

// Base carries the identity and audit timestamps shared by every entity.
type Base struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsNew reports whether the entity has not been persisted yet.
func (b Base) IsNew() bool {
	return b.ID == 0
}
