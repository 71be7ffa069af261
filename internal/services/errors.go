package services

import (
	"errors"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/store"
)

// storeError maps a store failure for kind/key onto the AppError taxonomy.
func storeError(kind, key string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(kind, key)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
