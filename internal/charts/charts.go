// Package charts renders summaries as PNG bar charts.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"spendtrack/internal/summary"
)

// ErrNoData is returned when a summary has nothing to plot.
var ErrNoData = errors.New("charts: summary has no data")

const (
	barWidth   = 60
	barSpacing = 40
	minWidth   = 600
	height     = 480
)

var (
	incomeColor  = drawing.ColorFromHex("2e7d32")
	expenseColor = drawing.ColorFromHex("c62828")
	balanceColor = drawing.ColorFromHex("1565c0")
)

// RenderSummary draws the income, expense and balance totals followed by one
// expense bar per category.
func RenderSummary(s summary.Summary) ([]byte, error) {
	if s.IncomeCount+s.ExpenseCount == 0 {
		return nil, ErrNoData
	}

	bars := []chart.Value{
		bar(fmt.Sprintf("Income: %.2f", s.TotalIncome), s.TotalIncome, incomeColor),
		bar(fmt.Sprintf("Expense: %.2f", s.TotalExpense), s.TotalExpense, expenseColor),
		bar(fmt.Sprintf("Balance: %.2f", s.Balance), s.Balance, balanceColor),
	}
	for _, c := range s.ByCategory {
		if c.Expense == 0 {
			continue
		}
		bars = append(bars, bar(c.CategoryName, c.Expense, expenseColor.WithAlpha(140)))
	}

	if allZero(bars) {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title: s.Period,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:      width(len(bars)),
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render summary chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func bar(label string, value float64, color drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: value,
		Style: chart.Style{
			StrokeColor: color,
			FillColor:   color,
			FontSize:    10,
			FontColor:   chart.ColorBlack,
		},
	}
}

func width(n int) int {
	w := 200 + n*(barWidth+barSpacing)
	if w < minWidth {
		return minWidth
	}
	return w
}

func allZero(bars []chart.Value) bool {
	for _, b := range bars {
		if b.Value != 0 {
			return false
		}
	}
	return true
}
