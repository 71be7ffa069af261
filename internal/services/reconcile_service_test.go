package services

import (
	"context"
	"slices"
	"testing"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func TestReconcileUser(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent_user_unchanged", func(t *testing.T) {
		svc := newTestServices(t)
		user := testutil.CreateTestUser(t, svc.stores)
		cat := testutil.CreateTestCategory(t, svc.stores, user.ID)
		testutil.CreateTestTransaction(t, svc.stores, user.ID, cat, models.TransactionTypeExpense, 5)

		report, err := svc.reconciler.ReconcileUser(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if report.Changed() {
			t.Errorf("expected no repairs, got %+v", report)
		}
	})

	t.Run("drops_dangling_and_adds_missing", func(t *testing.T) {
		svc := newTestServices(t)
		user := testutil.CreateTestUser(t, svc.stores)
		kept := testutil.CreateTestCategory(t, svc.stores, user.ID)

		// A category persisted without its attach step.
		orphan := &models.Category{UserID: user.ID, Name: "Orphan"}
		if _, err := svc.stores.Categories.Insert(ctx, orphan); err != nil {
			t.Fatalf("failed to insert orphan: %v", err)
		}
		// A reference whose child is gone.
		testutil.AssertNoError(t, svc.users.AttachTransaction(ctx, user.ID, "gone"))

		report, err := svc.reconciler.ReconcileUser(ctx, user.ID)
		testutil.AssertNoError(t, err)

		if !slices.Equal(report.AddedCategories, []string{orphan.ID}) {
			t.Errorf("expected orphan to be added, got %v", report.AddedCategories)
		}
		if !slices.Equal(report.RemovedTransactions, []string{"gone"}) {
			t.Errorf("expected dangling reference to be removed, got %v", report.RemovedTransactions)
		}

		got, err := svc.users.GetUser(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if !slices.Equal(got.CategoryIDs, []string{kept.ID, orphan.ID}) {
			t.Errorf("expected [%s %s], got %v", kept.ID, orphan.ID, got.CategoryIDs)
		}
		if len(got.TransactionIDs) != 0 {
			t.Errorf("expected empty transaction list, got %v", got.TransactionIDs)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		svc := newTestServices(t)
		_, err := svc.reconciler.ReconcileUser(ctx, "missing")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestReconcileAll(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	var users []*models.User
	for i := 0; i < 5; i++ {
		u := testutil.CreateTestUser(t, svc.stores)
		testutil.AssertNoError(t, svc.users.AttachCategory(ctx, u.ID, "stale"))
		users = append(users, u)
	}

	reports, err := svc.reconciler.ReconcileAll(ctx)
	testutil.AssertNoError(t, err)

	if len(reports) != len(users) {
		t.Fatalf("expected %d reports, got %d", len(users), len(reports))
	}
	for i, r := range reports {
		if r.UserID != users[i].ID {
			t.Errorf("report %d: expected user %s, got %s", i, users[i].ID, r.UserID)
		}
		if !slices.Equal(r.RemovedCategories, []string{"stale"}) {
			t.Errorf("report %d: expected stale reference removed, got %v", i, r.RemovedCategories)
		}
	}
}

func TestReconcileIDs(t *testing.T) {
	result, added, removed := reconcileIDs([]string{"b", "x", "a", "b"}, []string{"a", "b", "c"})

	if !slices.Equal(result, []string{"b", "a", "c"}) {
		t.Errorf("unexpected result %v", result)
	}
	if !slices.Equal(added, []string{"c"}) {
		t.Errorf("unexpected added %v", added)
	}
	if !slices.Equal(removed, []string{"x", "b"}) {
		t.Errorf("unexpected removed %v", removed)
	}
}
