package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/charts"
	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/services"
	"spendtrack/internal/summary"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the payload for creating or updating a transaction
type TransactionRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	CategoryID  string                 `json:"category_id" binding:"required"`
	Amount      float64                `json:"amount" binding:"required,gt=0"`
	Description string                 `json:"description" binding:"max=500"`
	Date        *string                `json:"date"`
}

func (r *TransactionRequest) input() (services.TransactionInput, error) {
	in := services.TransactionInput{
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Amount:      r.Amount,
	}
	if r.Date != nil && *r.Date != "" {
		parsed, _, err := parseFlexibleTime(*r.Date)
		if err != nil {
			return in, apperrors.InvalidArgument("date", err.Error())
		}
		in.Date = parsed
	}
	return in, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record income or expense for a user under one of the user's categories
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       userId  path string             true "Owner user ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "User or category not found"
// @Router      /transactions/user/{userId} [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID := c.Param("userId")
	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"type": req.Type, "amount": req.Amount, "category_id": req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles listing all of a user's transactions
// @Summary     List a user's transactions
// @Tags        transactions
// @Produce     json
// @Param       userId    path  string true  "Owner user ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId} [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	txs, err := h.transactionService.ListUserTransactions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondPage(c, txs)
}

// GetUserTransactionsByType handles listing a user's transactions of one kind
// @Summary     List a user's transactions by kind
// @Tags        transactions
// @Produce     json
// @Param       userId path string true "Owner user ID"
// @Param       kind   path string true "INCOME or EXPENSE"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Unsupported kind"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId}/kind/{kind} [get]
func (h *TransactionHandler) GetUserTransactionsByType(c *gin.Context) {
	kind := models.TransactionType(strings.ToUpper(c.Param("kind")))
	txs, err := h.transactionService.ListUserTransactionsByType(c.Request.Context(), c.Param("userId"), kind)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondPage(c, txs)
}

// GetUserTransactionsByCategory handles listing a user's transactions in a category
// @Summary     List a user's transactions by category
// @Tags        transactions
// @Produce     json
// @Param       userId     path string true "Owner user ID"
// @Param       categoryId path string true "Category ID"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     404 {object} ErrorResponse "User or category not found"
// @Router      /transactions/user/{userId}/category/{categoryId} [get]
func (h *TransactionHandler) GetUserTransactionsByCategory(c *gin.Context) {
	txs, err := h.transactionService.ListUserTransactionsByCategory(c.Request.Context(), c.Param("userId"), c.Param("categoryId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondPage(c, txs)
}

// GetUserTransactionsByDateRange handles listing a user's transactions within dates
// @Summary     List a user's transactions in a date range
// @Tags        transactions
// @Produce     json
// @Param       userId path  string true "Owner user ID"
// @Param       from   query string true "Start (YYYY-MM-DD or RFC 3339), inclusive"
// @Param       to     query string true "End (YYYY-MM-DD or RFC 3339), inclusive"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId}/range [get]
func (h *TransactionHandler) GetUserTransactionsByDateRange(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	txs, err := h.transactionService.ListUserTransactionsByDateRange(c.Request.Context(), c.Param("userId"), from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondPage(c, txs)
}

// GetSummary handles the all-periods summary
// @Summary     Summarize a user's transactions
// @Tags        summaries
// @Produce     json
// @Param       userId path string true "Owner user ID"
// @Success     200 {object} summary.Summary
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId}/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	s, err := h.transactionService.Summary(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": s})
}

// GetSummaryForPeriod handles the summary over a date range
// @Summary     Summarize a user's transactions in a date range
// @Tags        summaries
// @Produce     json
// @Param       userId path  string true "Owner user ID"
// @Param       from   query string true "Start, inclusive"
// @Param       to     query string true "End, inclusive"
// @Success     200 {object} summary.Summary
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId}/summary/period [get]
func (h *TransactionHandler) GetSummaryForPeriod(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	s, err := h.transactionService.SummaryForPeriod(c.Request.Context(), c.Param("userId"), from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": s})
}

// GetSummaryChart renders the summary as a PNG bar chart. With from and to
// the chart covers that range; otherwise all periods. Users without
// transactions get 204.
// @Summary     Chart a user's summary
// @Tags        summaries
// @Produce     png
// @Param       userId path  string true  "Owner user ID"
// @Param       from   query string false "Start, inclusive"
// @Param       to     query string false "End, inclusive"
// @Success     200 {file} binary
// @Success     204 "No transactions"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /transactions/user/{userId}/summary/chart [get]
func (h *TransactionHandler) GetSummaryChart(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	var (
		from, to time.Time
		err      error
	)
	ranged := c.Query("from") != "" || c.Query("to") != ""
	if ranged {
		if from, to, err = parseDateRange(c); err != nil {
			respondWithError(c, err)
			return
		}
	}

	var s *summary.Summary
	if ranged {
		s, err = h.transactionService.SummaryForPeriod(ctx, userID, from, to)
	} else {
		s, err = h.transactionService.Summary(ctx, userID)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	png, err := charts.RenderSummary(*s)
	if errors.Is(err, charts.ErrNoData) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetTransaction handles fetching a transaction by id
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles replacing a transaction's fields
// @Summary     Update a transaction
// @Description The new category is resolved and its name copied; its owner is not checked
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), transaction.UserID, "UPDATE_TRANSACTION", "transaction", id, c.ClientIP(),
		map[string]any{"type": req.Type, "amount": req.Amount, "category_id": req.CategoryID})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles transaction deletion
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), transaction.UserID, "DELETE_TRANSACTION", "transaction", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
