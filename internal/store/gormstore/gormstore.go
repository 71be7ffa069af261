// Package gormstore implements store.Store on top of GORM, for the postgres
// and sqlite drivers.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"spendtrack/internal/models"
	"spendtrack/internal/store"
	"spendtrack/internal/uuid"
)

// Store persists records of type T in the table GORM derives for T.
type Store[T any] struct {
	db *gorm.DB
}

// New creates a Store for T.
func New[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// NewSet creates stores for every record type over the same connection.
func NewSet(db *gorm.DB) *store.Set {
	return &store.Set{
		Users:        New[models.User](db),
		Categories:   New[models.Category](db),
		Transactions: New[models.Transaction](db),
		AuditLogs:    New[models.AuditLog](db),
	}
}

// Insert implements store.Store.
func (s *Store[T]) Insert(ctx context.Context, rec *T) (string, error) {
	r, err := store.AsRecord(rec)
	if err != nil {
		return "", err
	}
	if r.GetID() == "" {
		r.SetID(uuid.New())
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", translate(err)
	}
	return r.GetID(), nil
}

// FindByID implements store.Store.
func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindBy implements store.Store.
func (s *Store[T]) FindBy(ctx context.Context, filter store.Filter) ([]T, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Model(new(T))
	for _, c := range filter {
		q = q.Where(clause(c), c.Value)
	}
	var out []T
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Save implements store.Store.
func (s *Store[T]) Save(ctx context.Context, rec *T) error {
	r, err := store.AsRecord(rec)
	if err != nil {
		return err
	}
	if r.GetID() == "" {
		return fmt.Errorf("gormstore: save requires an id")
	}
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

// DeleteByID implements store.Store.
func (s *Store[T]) DeleteByID(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ExistsByID implements store.Store.
func (s *Store[T]) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func clause(c store.Condition) string {
	switch c.Op {
	case store.Gte:
		return c.Field + " >= ?"
	case store.Lte:
		return c.Field + " <= ?"
	default:
		return c.Field + " = ?"
	}
}

// translate maps GORM errors onto the store sentinels. The connection must be
// opened with TranslateError so that driver unique violations arrive as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
