package services

import (
	"context"
	"time"

	"spendtrack/internal/models"
	"spendtrack/internal/summary"
)

// UserServicer defines the contract for the user registry.
type UserServicer interface {
	Register(ctx context.Context, handle, email, secret string) (*models.User, error)
	Authenticate(ctx context.Context, email, secret string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id, handle, email, secret string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	AttachCategory(ctx context.Context, userID, categoryID string) error
	DetachCategory(ctx context.Context, userID, categoryID string) error
	AttachTransaction(ctx context.Context, userID, transactionID string) error
	DetachTransaction(ctx context.Context, userID, transactionID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name string) (*models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListUserCategories(ctx context.Context, userID string) ([]models.Category, error)
	RenameCategory(ctx context.Context, id, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// TransactionInput holds the writable fields of a transaction.
type TransactionInput struct {
	Type        models.TransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	CategoryID  string                 `json:"category_id" validate:"required"`
	Description string                 `json:"description" validate:"max=500"`
	Date        time.Time              `json:"date"`
	Amount      float64                `json:"amount" validate:"gt=0"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	ListUserTransactionsByType(ctx context.Context, userID string, txType models.TransactionType) ([]models.Transaction, error)
	ListUserTransactionsByCategory(ctx context.Context, userID, categoryID string) ([]models.Transaction, error)
	ListUserTransactionsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	Summary(ctx context.Context, userID string) (*summary.Summary, error)
	SummaryForPeriod(ctx context.Context, userID string, from, to time.Time) (*summary.Summary, error)
}

// ReconcileReport describes the back-reference repairs made for one user.
type ReconcileReport struct {
	UserID              string   `json:"user_id"`
	AddedCategories     []string `json:"added_categories"`
	RemovedCategories   []string `json:"removed_categories"`
	AddedTransactions   []string `json:"added_transactions"`
	RemovedTransactions []string `json:"removed_transactions"`
}

// Changed reports whether any list was repaired.
func (r *ReconcileReport) Changed() bool {
	return len(r.AddedCategories)+len(r.RemovedCategories)+len(r.AddedTransactions)+len(r.RemovedTransactions) > 0
}

// ReconcileServicer repairs user back-reference lists against the stored children.
type ReconcileServicer interface {
	ReconcileUser(ctx context.Context, userID string) (*ReconcileReport, error)
	ReconcileAll(ctx context.Context) ([]ReconcileReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
