package services

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/store"
)

// reconcileService rebuilds user back-reference lists from the stored
// categories and transactions. It repairs what a failed multi-step write
// left behind.
type reconcileService struct {
	stores      *store.Set
	concurrency int
	log         *zap.SugaredLogger
}

// NewReconcileService creates a new ReconcileServicer that processes at most
// concurrency users at a time in ReconcileAll.
func NewReconcileService(stores *store.Set, concurrency int) ReconcileServicer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &reconcileService{stores: stores, concurrency: concurrency, log: logger.Named("reconcile_service")}
}

// ReconcileUser drops list entries without a matching owned child and
// appends owned children missing from the lists. Existing order is kept.
func (s *reconcileService) ReconcileUser(ctx context.Context, userID string) (*ReconcileReport, error) {
	user, err := s.stores.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(apperrors.KindUser, userID, err)
	}

	var categories []models.Category
	var transactions []models.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.stores.Categories.FindBy(gctx, store.Where("user_id", userID))
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.stores.Transactions.FindBy(gctx, store.Where("user_id", userID))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &ReconcileReport{UserID: userID}
	user.CategoryIDs, report.AddedCategories, report.RemovedCategories =
		reconcileIDs(user.CategoryIDs, ids(categories, func(c models.Category) string { return c.ID }))
	user.TransactionIDs, report.AddedTransactions, report.RemovedTransactions =
		reconcileIDs(user.TransactionIDs, ids(transactions, func(t models.Transaction) string { return t.ID }))

	if !report.Changed() {
		return report, nil
	}
	if err := s.stores.Users.Save(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Infow("back-references repaired",
		"user_id", userID,
		"added_categories", len(report.AddedCategories),
		"removed_categories", len(report.RemovedCategories),
		"added_transactions", len(report.AddedTransactions),
		"removed_transactions", len(report.RemovedTransactions),
	)
	return report, nil
}

// ReconcileAll reconciles every user. Reports are returned in user order.
func (s *reconcileService) ReconcileAll(ctx context.Context) ([]ReconcileReport, error) {
	users, err := s.stores.Users.FindBy(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	reports := make([]ReconcileReport, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, u := range users {
		g.Go(func() error {
			report, err := s.ReconcileUser(gctx, u.ID)
			if err != nil {
				return err
			}
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Infow("reconciliation finished", "users", len(users))
	return reports, nil
}

// reconcileIDs returns current with unknown and repeated ids removed and the
// missing owned ids appended, plus the added and removed ids.
func reconcileIDs(current, owned []string) (result, added, removed []string) {
	result = make([]string, 0, len(owned))
	seen := make(map[string]bool, len(current))
	for _, id := range current {
		if !slices.Contains(owned, id) || seen[id] {
			removed = append(removed, id)
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	for _, id := range owned {
		if !seen[id] {
			seen[id] = true
			added = append(added, id)
			result = append(result, id)
		}
	}
	return result, added, removed
}

func ids[T any](recs []T, id func(T) string) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = id(r)
	}
	return out
}
