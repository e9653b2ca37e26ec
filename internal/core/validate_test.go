package core

import (
	"math"
	"testing"
	"time"
)

func validCandidate() Transaction {
	return Transaction{
		Description: "Mercado",
		Value:       42.5,
		Type:        Expense,
		CategoryID:  "1",
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateTransactionValid(t *testing.T) {
	res := ValidateTransaction(validCandidate())
	if !res.Valid {
		t.Fatalf("expected valid, got fields %v", res.Fields)
	}
	if len(res.Fields) != 0 {
		t.Fatalf("expected empty field map, got %v", res.Fields)
	}
}

func TestValidateTransactionSingleField(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Transaction)
		field   string
		message string
	}{
		{"empty description", func(tx *Transaction) { tx.Description = "" }, "description", MsgDescriptionRequired},
		{"whitespace description", func(tx *Transaction) { tx.Description = "   " }, "description", MsgDescriptionRequired},
		{"zero value", func(tx *Transaction) { tx.Value = 0 }, "value", MsgValuePositive},
		{"negative value", func(tx *Transaction) { tx.Value = -10 }, "value", MsgValuePositive},
		{"NaN value", func(tx *Transaction) { tx.Value = math.NaN() }, "value", MsgValueNumeric},
		{"empty category", func(tx *Transaction) { tx.CategoryID = "" }, "categoryId", MsgCategoryRequired},
		{"empty type", func(tx *Transaction) { tx.Type = "" }, "type", MsgTypeInvalid},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, "type", MsgTypeInvalid},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, "date", MsgDateRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validCandidate()
			tc.mutate(&tx)
			res := ValidateTransaction(tx)
			if res.Valid {
				t.Fatalf("expected invalid")
			}
			if got := res.Fields[tc.field]; got != tc.message {
				t.Fatalf("field %q: got %q, want %q", tc.field, got, tc.message)
			}
			if len(res.Fields) != 1 {
				t.Fatalf("expected only %q to fail, got %v", tc.field, res.Fields)
			}
		})
	}
}

func TestValidateTransactionReportsAllFields(t *testing.T) {
	res := ValidateTransaction(Transaction{})
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	for _, field := range []string{"description", "value", "categoryId", "type", "date"} {
		if _, ok := res.Fields[field]; !ok {
			t.Fatalf("missing error for field %q: %v", field, res.Fields)
		}
	}
}

func TestValidateTransactionValueLastCheckWins(t *testing.T) {
	tx := validCandidate()
	tx.Value = math.NaN()
	// NaN fails the positivity check too; the numeric message must win.
	res := ValidateTransaction(tx)
	if got := res.Fields["value"]; got != MsgValueNumeric {
		t.Fatalf("got %q, want %q", got, MsgValueNumeric)
	}
}
