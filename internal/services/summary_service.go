package services

import (
	"context"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/storage"
)

type (
	// CategoryTotal holds the partial sums of one category inside a
	// summary window.
	CategoryTotal struct {
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// Summary aggregates a date window. Values are raw float64 sums; BRL
	// rounding happens at display time only.
	Summary struct {
		TotalIncome    float64                  `json:"totalIncome"`
		TotalExpense   float64                  `json:"totalExpense"`
		Balance        float64                  `json:"balance"`
		CategoryTotals map[string]CategoryTotal `json:"categoryTotals"`
	}
)

// SummaryService computes totals and per-category breakdowns over an
// inclusive date range.
type SummaryService struct {
	store *storage.TransactionStore
}

func NewSummaryService(store *storage.TransactionStore) *SummaryService {
	return &SummaryService{store: store}
}

// Summarize filters the user's collection to [start, end] by date and
// accumulates income, expense and balance, plus per-category partial sums
// initialized lazily as categories are encountered.
func (s *SummaryService) Summarize(ctx context.Context, userID string, start, end time.Time) (Summary, error) {
	txns, err := s.store.Load(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	start = core.NormalizeDate(start)
	end = core.NormalizeDate(end)

	summary := Summary{CategoryTotals: make(map[string]CategoryTotal)}
	for _, tx := range txns {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}

		totals := summary.CategoryTotals[tx.CategoryID]
		if tx.Type == core.Income {
			summary.TotalIncome += tx.Value
			totals.Income += tx.Value
		} else {
			summary.TotalExpense += tx.Value
			totals.Expense += tx.Value
		}
		summary.CategoryTotals[tx.CategoryID] = totals
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}
