package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/store"
	"spendtrack/internal/summary"
)

// transactionService owns Transaction records and computes summaries.
type transactionService struct {
	transactions store.Store[models.Transaction]
	users        UserServicer
	categories   CategoryServicer
	now          func() time.Time
	log          *zap.SugaredLogger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(transactions store.Store[models.Transaction], users UserServicer, categories CategoryServicer) TransactionServicer {
	return &transactionService{
		transactions: transactions,
		users:        users,
		categories:   categories,
		now:          time.Now,
		log:          logger.Named("transaction_service"),
	}
}

// CreateTransaction records a transaction for userID against one of the
// user's categories and attaches it to the user. The category name is copied
// onto the transaction. When the attach fails the transaction is deleted again.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	category, err := s.categories.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, apperrors.ErrOwnershipMismatch
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := &models.Transaction{
		Type:         in.Type,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Description:  in.Description,
		Date:         date.UTC(),
		Amount:       in.Amount,
		UserID:       userID,
	}
	if _, err := s.transactions.Insert(ctx, tx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.log.Infow("transaction persisted", "transaction_id", tx.ID, "user_id", userID)

	if err := s.users.AttachTransaction(ctx, userID, tx.ID); err != nil {
		s.log.Errorw("failed to attach transaction, removing it",
			"error", err,
			"transaction_id", tx.ID,
			"user_id", userID,
		)
		if delErr := s.transactions.DeleteByID(ctx, tx.ID); delErr != nil {
			s.log.Errorw("compensating delete failed",
				"error", delErr,
				"transaction_id", tx.ID,
			)
		}
		return nil, err
	}

	return tx, nil
}

// GetTransaction retrieves a transaction by ID
func (s *transactionService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(apperrors.KindTransaction, id, err)
	}
	return tx, nil
}

// ListUserTransactions returns all transactions of userID.
func (s *transactionService) ListUserTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.find(ctx, store.Where("user_id", userID))
}

// ListUserTransactionsByType returns the transactions of userID of one kind.
func (s *transactionService) ListUserTransactionsByType(ctx context.Context, userID string, txType models.TransactionType) ([]models.Transaction, error) {
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.find(ctx, store.Where("user_id", userID).And("type", txType))
}

// ListUserTransactionsByCategory returns the transactions of userID filed
// under categoryID. The category must exist but may belong to anyone.
func (s *transactionService) ListUserTransactionsByCategory(ctx context.Context, userID, categoryID string) ([]models.Transaction, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.find(ctx, store.Where("user_id", userID).And("category_id", categoryID))
}

// ListUserTransactionsByDateRange returns the transactions of userID dated
// within [from, to].
func (s *transactionService) ListUserTransactionsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.find(ctx, store.Where("user_id", userID).Between("date", from.UTC(), to.UTC()))
}

// UpdateTransaction replaces the writable fields of a transaction and
// refreshes the copied category name. The owner is not compared with the
// new category's owner. A zero date keeps the stored one.
func (s *transactionService) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category, err := s.categories.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	tx.Type = in.Type
	tx.CategoryID = category.ID
	tx.CategoryName = category.Name
	tx.Description = in.Description
	tx.Amount = in.Amount
	if !in.Date.IsZero() {
		tx.Date = in.Date.UTC()
	}

	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tx, nil
}

// DeleteTransaction detaches the transaction from its owner, then deletes it.
func (s *transactionService) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.DetachTransaction(ctx, tx.UserID, id); err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}
		s.log.Warnw("owner of transaction no longer exists",
			"transaction_id", id,
			"user_id", tx.UserID,
		)
	}

	if err := s.transactions.DeleteByID(ctx, id); err != nil {
		return storeError(apperrors.KindTransaction, id, err)
	}
	s.log.Infow("transaction deleted", "transaction_id", id, "user_id", tx.UserID)
	return nil
}

// Summary totals every transaction of userID.
func (s *transactionService) Summary(ctx context.Context, userID string) (*summary.Summary, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.summarize(ctx, store.Where("user_id", userID), summary.AllPeriods)
}

// SummaryForPeriod totals the transactions of userID dated within [from, to].
func (s *transactionService) SummaryForPeriod(ctx context.Context, userID string, from, to time.Time) (*summary.Summary, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	filter := store.Where("user_id", userID).Between("date", from.UTC(), to.UTC())
	return s.summarize(ctx, filter, summary.PeriodLabel(from, to))
}

// summarize loads the income and expense sets matching base concurrently.
func (s *transactionService) summarize(ctx context.Context, base store.Filter, period string) (*summary.Summary, error) {
	var income, expense []models.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.transactions.FindBy(gctx, extend(base, "type", models.TransactionTypeIncome))
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.transactions.FindBy(gctx, extend(base, "type", models.TransactionTypeExpense))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := summary.Summarize(income, expense, period)
	return &result, nil
}

func (s *transactionService) find(ctx context.Context, filter store.Filter) ([]models.Transaction, error) {
	txs, err := s.transactions.FindBy(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// extend copies base before appending so concurrent callers never share a backing array.
func extend(base store.Filter, field string, value any) store.Filter {
	f := make(store.Filter, len(base), len(base)+1)
	copy(f, base)
	return f.And(field, value)
}

func checkRange(from, to time.Time) error {
	if from.After(to) {
		return apperrors.InvalidArgument("from", "must not be after to")
	}
	return nil
}
