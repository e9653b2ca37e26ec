package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/storage"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 10

const msgInvalidCursor = "Cursor de paginação inválido"

type (
	// Filters narrow a listing. Zero values mean "no constraint"; all set
	// filters apply conjunctively.
	Filters struct {
		Type       core.TransactionType
		CategoryID string
		StartDate  time.Time // inclusive lower bound on date
		EndDate    time.Time // inclusive upper bound on date
	}

	// Page is one slice of the sorted, filtered listing. NextCursor is ""
	// once the listing is exhausted.
	Page struct {
		Transactions []core.Transaction
		NextCursor   string
		HasMore      bool
	}
)

// QueryService produces filtered, date-descending, paginated views of a
// user's collection without mutating the stored data.
type QueryService struct {
	store *storage.TransactionStore
}

func NewQueryService(store *storage.TransactionStore) *QueryService {
	return &QueryService{store: store}
}

// List loads the user's full collection, filters and sorts it, then
// returns the page at the given cursor. The cursor is an offset into the
// sorted filtered result; it is not stable if the collection changes
// between pages, which is accepted for a single local writer.
func (s *QueryService) List(ctx context.Context, userID string, f Filters, cursor string, pageSize int) (Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return Page{}, &core.Error{Kind: core.KindValidation, Message: msgInvalidCursor}
		}
		start = n
	}

	txns, err := s.store.Load(ctx, userID)
	if err != nil {
		return Page{}, err
	}

	filtered := txns[:0:0]
	for _, tx := range txns {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
			continue
		}
		if !f.StartDate.IsZero() && tx.Date.Before(core.NormalizeDate(f.StartDate)) {
			continue
		}
		if !f.EndDate.IsZero() && tx.Date.After(core.NormalizeDate(f.EndDate)) {
			continue
		}
		filtered = append(filtered, tx)
	}

	// Most recent first; ties keep insertion order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})

	if start >= len(filtered) {
		return Page{Transactions: []core.Transaction{}}, nil
	}

	end := start + pageSize
	hasMore := end < len(filtered)
	if end > len(filtered) {
		end = len(filtered)
	}

	page := Page{
		Transactions: filtered[start:end],
		HasMore:      hasMore,
	}
	if hasMore {
		page.NextCursor = strconv.Itoa(start + pageSize)
	}
	return page, nil
}
