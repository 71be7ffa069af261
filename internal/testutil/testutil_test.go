package testutil_test

import (
	"context"
	"testing"

	"spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "categories", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	stores, _ := testutil.SetupTestStores(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, stores)
	if user.ID == "" {
		t.Fatal("user should have an id")
	}

	category := testutil.CreateTestCategory(t, stores, user.ID)
	tx := testutil.CreateTestTransaction(t, stores, user.ID, category, models.TransactionTypeIncome, 10.5)
	if tx.CategoryName != category.Name {
		t.Errorf("expected denormalized name %q, got %q", category.Name, tx.CategoryName)
	}

	stored, err := stores.Users.FindByID(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertContainsID(t, stored.CategoryIDs, category.ID)
	testutil.AssertContainsID(t, stored.TransactionIDs, tx.ID)
}

func TestAssertAppError(t *testing.T) {
	err := errors.NotFound(errors.KindCategory, "abc")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
