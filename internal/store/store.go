// Package store defines the Entity Store adapter: a thin document-style
// persistence interface keyed by opaque string identifiers. Implementations
// live in gormstore (postgres, sqlite) and mongostore (MongoDB).
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendtrack/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Record is implemented by every stored type through models.Base.
type Record interface {
	GetID() string
	SetID(id string)
	Touch(now time.Time)
}

// Store is the persistence contract consumed by the services.
type Store[T any] interface {
	// Insert persists a new record, assigning an id when rec has none.
	Insert(ctx context.Context, rec *T) (string, error)
	FindByID(ctx context.Context, id string) (*T, error)
	// FindBy returns all records matching filter in insertion order.
	FindBy(ctx context.Context, filter Filter) ([]T, error)
	// Save upserts rec by its existing id.
	Save(ctx context.Context, rec *T) error
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Set groups the stores for every record type.
type Set struct {
	Users        Store[models.User]
	Categories   Store[models.Category]
	Transactions Store[models.Transaction]
	AuditLogs    Store[models.AuditLog]
}

// AsRecord returns rec as a Record or an error if the type does not embed models.Base.
func AsRecord(rec any) (Record, error) {
	r, ok := rec.(Record)
	if !ok {
		return nil, fmt.Errorf("store: %T does not implement Record", rec)
	}
	return r, nil
}
