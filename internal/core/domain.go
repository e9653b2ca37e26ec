package core

import "time"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is the sole persisted entity: one income or expense
	// record owned by exactly one user. JSON tags match the serialized
	// layout in the local store.
	Transaction struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		Description string          `json:"description"`
		Value       float64         `json:"value"`
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"categoryId"`
		Date        time.Time       `json:"date"`
		ReceiptURL  string          `json:"receiptUrl,omitempty"`
		ReceiptPath string          `json:"receiptPath,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	// TransactionPatch is a partial update. Nil fields are absent and the
	// stored value is retained; the merge is shallow and may leave
	// categoryId/type mutually inconsistent.
	TransactionPatch struct {
		Description *string
		Value       *float64
		Type        *TransactionType
		CategoryID  *string
		Date        *time.Time
		ReceiptURL  *string
		ReceiptPath *string
	}
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ApplyTo merges the present patch fields onto tx. A patched date is
// normalized; UpdatedAt stamping is the store's job.
func (p TransactionPatch) ApplyTo(tx *Transaction) {
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Value != nil {
		tx.Value = *p.Value
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		tx.Date = NormalizeDate(*p.Date)
	}
	if p.ReceiptURL != nil {
		tx.ReceiptURL = *p.ReceiptURL
	}
	if p.ReceiptPath != nil {
		tx.ReceiptPath = *p.ReceiptPath
	}
}

// IsZero reports whether the patch carries no fields at all.
func (p TransactionPatch) IsZero() bool {
	return p.Description == nil && p.Value == nil && p.Type == nil &&
		p.CategoryID == nil && p.Date == nil && p.ReceiptURL == nil &&
		p.ReceiptPath == nil
}

// NormalizeDate reduces t to its calendar day as a canonical UTC instant.
// Time of day carries no meaning for a transaction.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
