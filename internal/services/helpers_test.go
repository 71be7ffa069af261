package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/store"
	"spendtrack/internal/testutil"
)

// testServices wires every service over one in-memory database.
type testServices struct {
	stores       *store.Set
	users        UserServicer
	categories   CategoryServicer
	transactions TransactionServicer
	reconciler   ReconcileServicer
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	stores, _ := testutil.SetupTestStores(t)
	users := NewUserService(stores.Users, bcrypt.MinCost)
	categories := NewCategoryService(stores.Categories, users)
	return &testServices{
		stores:       stores,
		users:        users,
		categories:   categories,
		transactions: NewTransactionService(stores.Transactions, users, categories),
		reconciler:   NewReconcileService(stores, 2),
	}
}

var errAttach = errors.New("attach failed")

// failingAttach is a UserServicer whose attach calls always fail.
type failingAttach struct {
	UserServicer
}

func (f failingAttach) AttachCategory(context.Context, string, string) error {
	return apperrors.Wrap(apperrors.ErrInternalServer, errAttach)
}

func (f failingAttach) AttachTransaction(context.Context, string, string) error {
	return apperrors.Wrap(apperrors.ErrInternalServer, errAttach)
}
