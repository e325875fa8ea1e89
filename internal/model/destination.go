package model

import "time"

// Destination groups hotels and activities by travel region.  It is
// catalogue reference data served by the public browse endpoints.
type Destination struct {
	ID          uint64    // destinations.id
	Name        string    // destinations.name
	Country     string    // destinations.country
	Description string    // destinations.description
	IsActive    bool      // destinations.is_active
	CreatedAt   time.Time // destinations.created_at
}
