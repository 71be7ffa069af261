// Package summary aggregates transactions into income/expense totals.
// It has no store access; callers hand it the transactions to aggregate.
package summary

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// AllPeriods is the label used for a summary over every transaction.
const AllPeriods = "all periods"

// Summary holds aggregate totals for a set of transactions.
type Summary struct {
	TotalIncome  float64         `json:"total_income"`
	TotalExpense float64         `json:"total_expense"`
	Balance      float64         `json:"balance"`
	IncomeCount  int             `json:"income_count"`
	ExpenseCount int             `json:"expense_count"`
	Period       string          `json:"period"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// CategoryTotal is the income and expense total for one category name.
type CategoryTotal struct {
	CategoryName string  `json:"category_name"`
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
}

// Summarize totals the income and expense sets. Amounts are accumulated as
// decimals, so the totals do not depend on iteration order.
// The label is copied through without interpretation.
func Summarize(income, expense []models.Transaction, period string) Summary {
	byCategory := map[string]*categoryAcc{}

	totalIncome := decimal.Zero
	for _, tx := range income {
		amount := decimal.NewFromFloat(tx.Amount)
		totalIncome = totalIncome.Add(amount)
		a := acc(byCategory, tx.CategoryName)
		a.income = a.income.Add(amount)
	}

	totalExpense := decimal.Zero
	for _, tx := range expense {
		amount := decimal.NewFromFloat(tx.Amount)
		totalExpense = totalExpense.Add(amount)
		a := acc(byCategory, tx.CategoryName)
		a.expense = a.expense.Add(amount)
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for name, a := range byCategory {
		categories = append(categories, CategoryTotal{
			CategoryName: name,
			Income:       a.income.InexactFloat64(),
			Expense:      a.expense.InexactFloat64(),
		})
	}
	slices.SortFunc(categories, func(a, b CategoryTotal) int {
		return cmp.Compare(a.CategoryName, b.CategoryName)
	})

	return Summary{
		TotalIncome:  totalIncome.InexactFloat64(),
		TotalExpense: totalExpense.InexactFloat64(),
		Balance:      totalIncome.Sub(totalExpense).InexactFloat64(),
		IncomeCount:  len(income),
		ExpenseCount: len(expense),
		Period:       period,
		ByCategory:   categories,
	}
}

// PeriodLabel formats an inclusive date range label.
func PeriodLabel(from, to time.Time) string {
	return fmt.Sprintf("from %s to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
}

type categoryAcc struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func acc(m map[string]*categoryAcc, name string) *categoryAcc {
	a, ok := m[name]
	if !ok {
		a = &categoryAcc{income: decimal.Zero, expense: decimal.Zero}
		m[name] = a
	}
	return a
}
