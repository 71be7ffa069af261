// Package uuid generates the opaque string identifiers assigned to stored records.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. UUIDv7 ids sort by creation time, which
// gives store queries ordered by id a stable insertion order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fall back to a random UUIDv4 if the clock/entropy read fails.
		return googleuuid.New().String()
	}
	return id.String()
}
