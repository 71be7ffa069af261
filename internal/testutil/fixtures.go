package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendtrack/internal/models"
	"spendtrack/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// TestSecret is the plain secret behind every fixture user's hash.
const TestSecret = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed secret and unique handle and email.
func CreateTestUser(t *testing.T, stores *store.Set) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWith(t, stores, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWith creates a user with the given handle and email.
func CreateTestUserWith(t *testing.T, stores *store.Set, handle, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestSecret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash secret: %v", err)
	}

	user := &models.User{
		Handle:         handle,
		Email:          email,
		SecretHash:     string(hash),
		CategoryIDs:    []string{},
		TransactionIDs: []string{},
	}
	if _, err := stores.Users.Insert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category for userID and attaches it to the user.
func CreateTestCategory(t *testing.T, stores *store.Set, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, stores, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryNamed creates a named category for userID and attaches it to the user.
func CreateTestCategoryNamed(t *testing.T, stores *store.Set, userID, name string) *models.Category {
	t.Helper()
	ctx := context.Background()

	category := &models.Category{UserID: userID, Name: name}
	if _, err := stores.Categories.Insert(ctx, category); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	user, err := stores.Users.FindByID(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load owner of test category: %v", err)
	}
	user.AddCategory(category.ID)
	if err := stores.Users.Save(ctx, user); err != nil {
		t.Fatalf("failed to attach test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated now and attaches it to the user.
func CreateTestTransaction(t *testing.T, stores *store.Set, userID string, category *models.Category, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, stores, userID, category, txType, amount, time.Now().UTC().Truncate(time.Second))
}

// CreateTestTransactionOn creates a transaction on the given date and attaches it to the user.
func CreateTestTransactionOn(t *testing.T, stores *store.Set, userID string, category *models.Category, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()
	ctx := context.Background()

	tx := &models.Transaction{
		UserID:       userID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Type:         txType,
		Amount:       amount,
		Description:  fmt.Sprintf("Test transaction %d", nextID()),
		Date:         date,
	}
	if _, err := stores.Transactions.Insert(ctx, tx); err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	user, err := stores.Users.FindByID(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load owner of test transaction: %v", err)
	}
	user.AddTransaction(tx.ID)
	if err := stores.Users.Save(ctx, user); err != nil {
		t.Fatalf("failed to attach test transaction: %v", err)
	}
	return tx
}
