package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/services"
	"spendtrack/internal/summary"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createFn        func(userID string, in services.TransactionInput) (*models.Transaction, error)
	getFn           func(id string) (*models.Transaction, error)
	listFn          func(userID string) ([]models.Transaction, error)
	listByTypeFn    func(userID string, txType models.TransactionType) ([]models.Transaction, error)
	listByCatFn     func(userID, categoryID string) ([]models.Transaction, error)
	listByRangeFn   func(userID string, from, to time.Time) ([]models.Transaction, error)
	updateFn        func(id string, in services.TransactionInput) (*models.Transaction, error)
	deleteFn        func(id string) error
	summaryFn       func(userID string) (*summary.Summary, error)
	summaryPeriodFn func(userID string, from, to time.Time) (*summary.Summary, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Transaction{Base: models.Base{ID: id}, UserID: "u1"}, nil
}

func (m *mockTransactionService) ListUserTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return nil, nil
}

func (m *mockTransactionService) ListUserTransactionsByType(_ context.Context, userID string, txType models.TransactionType) ([]models.Transaction, error) {
	if m.listByTypeFn != nil {
		return m.listByTypeFn(userID, txType)
	}
	return nil, nil
}

func (m *mockTransactionService) ListUserTransactionsByCategory(_ context.Context, userID, categoryID string) ([]models.Transaction, error) {
	if m.listByCatFn != nil {
		return m.listByCatFn(userID, categoryID)
	}
	return nil, nil
}

func (m *mockTransactionService) ListUserTransactionsByDateRange(_ context.Context, userID string, from, to time.Time) ([]models.Transaction, error) {
	if m.listByRangeFn != nil {
		return m.listByRangeFn(userID, from, to)
	}
	return nil, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, id string, in services.TransactionInput) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockTransactionService) Summary(_ context.Context, userID string) (*summary.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID)
	}
	return &summary.Summary{Period: summary.AllPeriods}, nil
}

func (m *mockTransactionService) SummaryForPeriod(_ context.Context, userID string, from, to time.Time) (*summary.Summary, error) {
	if m.summaryPeriodFn != nil {
		return m.summaryPeriodFn(userID, from, to)
	}
	return &summary.Summary{Period: summary.PeriodLabel(from, to)}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions/user/:userId", handler.CreateTransaction)
	r.GET("/transactions/user/:userId", handler.GetUserTransactions)
	r.GET("/transactions/user/:userId/kind/:kind", handler.GetUserTransactionsByType)
	r.GET("/transactions/user/:userId/range", handler.GetUserTransactionsByDateRange)
	r.GET("/transactions/user/:userId/category/:categoryId", handler.GetUserTransactionsByCategory)
	r.GET("/transactions/user/:userId/summary", handler.GetSummary)
	r.GET("/transactions/user/:userId/summary/period", handler.GetSummaryForPeriod)
	r.GET("/transactions/user/:userId/summary/chart", handler.GetSummaryChart)
	r.GET("/transactions/:id", handler.GetTransaction)
	r.PUT("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:         models.Base{ID: "t1"},
					UserID:       userID,
					Type:         in.Type,
					CategoryID:   in.CategoryID,
					CategoryName: "Food",
					Amount:       in.Amount,
					Date:         in.Date,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "POST", "/transactions/user/u1",
			`{"type":"EXPENSE","category_id":"c1","amount":12.5,"description":"Lunch","date":"2024-03-05"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected parsed date, got %v", got.Date)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["category_name"] != "Food" || tx["amount"] != 12.5 {
			t.Errorf("unexpected transaction %v", tx)
		}
		if got := audit.actions(); len(got) != 1 || got[0] != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %v", got)
		}
	})

	t.Run("returns 400 on bad type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/user/u1", `{"type":"TRANSFER","category_id":"c1","amount":5}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/user/u1", `{"type":"INCOME","category_id":"c1","amount":-1}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/user/u1", `{"type":"INCOME","category_id":"c1","amount":1,"date":"yesterday"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("returns 403 on ownership mismatch", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrOwnershipMismatch
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/user/u1", `{"type":"INCOME","category_id":"c9","amount":1}`)
		assertErrorCode(t, rec, http.StatusForbidden, "OWNERSHIP_MISMATCH")
	})
}

func TestTransactionHandler_Lists(t *testing.T) {
	t.Run("kind is upper-cased", func(t *testing.T) {
		var gotType models.TransactionType
		svc := &mockTransactionService{
			listByTypeFn: func(_ string, txType models.TransactionType) ([]models.Transaction, error) {
				gotType = txType
				return nil, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/kind/income", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotType != models.TransactionTypeIncome {
			t.Errorf("expected INCOME, got %s", gotType)
		}
	})

	t.Run("range with plain dates covers whole end day", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		svc := &mockTransactionService{
			listByRangeFn: func(_ string, from, to time.Time) ([]models.Transaction, error) {
				gotFrom, gotTo = from, to
				return []models.Transaction{{}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/range?from=2024-03-01&to=2024-03-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected from %v", gotFrom)
		}
		if gotTo.Format(time.DateOnly) != "2024-03-31" || gotTo.Hour() != 23 {
			t.Errorf("expected end of 2024-03-31, got %v", gotTo)
		}
	})

	t.Run("range requires both bounds", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/range?from=2024-03-01", "")
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("category not found", func(t *testing.T) {
		svc := &mockTransactionService{
			listByCatFn: func(_, categoryID string) ([]models.Transaction, error) {
				return nil, apperrors.NotFound(apperrors.KindCategory, categoryID)
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/category/missing", "")
		assertErrorCode(t, rec, http.StatusNotFound, "CATEGORY_NOT_FOUND")
	})
}

func TestTransactionHandler_Summary(t *testing.T) {
	t.Run("all periods", func(t *testing.T) {
		svc := &mockTransactionService{
			summaryFn: func(string) (*summary.Summary, error) {
				return &summary.Summary{TotalIncome: 500, TotalExpense: 150, Balance: 350, Period: summary.AllPeriods}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/summary", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		s := parseJSON(t, rec)["summary"].(map[string]interface{})
		if s["balance"] != float64(350) || s["period"] != summary.AllPeriods {
			t.Errorf("unexpected summary %v", s)
		}
	})

	t.Run("period label", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/summary/period?from=2024-01-01&to=2024-01-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		s := parseJSON(t, rec)["summary"].(map[string]interface{})
		if s["period"] != "from 2024-01-01 to 2024-01-31" {
			t.Errorf("unexpected period %v", s["period"])
		}
	})

	t.Run("chart renders png", func(t *testing.T) {
		svc := &mockTransactionService{
			summaryFn: func(string) (*summary.Summary, error) {
				return &summary.Summary{TotalIncome: 500, TotalExpense: 150, Balance: 350, IncomeCount: 1, ExpenseCount: 2, Period: summary.AllPeriods}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/summary/chart", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Content-Type") != "image/png" {
			t.Errorf("expected image/png, got %s", rec.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("expected PNG body")
		}
	})

	t.Run("chart without data is 204", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/user/u1/summary/chart", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateDelete(t *testing.T) {
	t.Run("update returns 200", func(t *testing.T) {
		svc := &mockTransactionService{
			updateFn: func(id string, in services.TransactionInput) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}, UserID: "u1", Amount: in.Amount}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "PUT", "/transactions/t1", `{"type":"INCOME","category_id":"c2","amount":99}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].userID != "u1" {
			t.Errorf("unexpected audit entries %v", audit.entries)
		}
	})

	t.Run("delete not found", func(t *testing.T) {
		svc := &mockTransactionService{
			getFn: func(id string) (*models.Transaction, error) {
				return nil, apperrors.NotFound(apperrors.KindTransaction, id)
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/missing", "")
		assertErrorCode(t, rec, http.StatusNotFound, "TRANSACTION_NOT_FOUND")
	})

	t.Run("delete returns 200", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/t1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
