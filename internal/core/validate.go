package core

import (
	"math"
	"strings"
)

// User-facing validation messages, keyed by field in ValidationResult.
const (
	MsgDescriptionRequired = "A descrição é obrigatória"
	MsgValuePositive       = "O valor deve ser maior que zero"
	MsgValueNumeric        = "O valor deve ser um número válido"
	MsgCategoryRequired    = "A categoria é obrigatória"
	MsgTypeInvalid         = "O tipo deve ser receita ou despesa"
	MsgDateRequired        = "A data é obrigatória"
)

// ValidationResult maps each violated field to a human-readable message.
// It is returned as a value, never as an error: the caller decides how to
// present it.
type ValidationResult struct {
	Valid  bool
	Fields map[string]string
}

// ValidateTransaction checks a candidate transaction against the
// required-field and numeric-range rules. Every rule runs; a candidate with
// several problems reports them all in one pass. The two value rules both
// fire on the same field, last check wins on the message. Pure function,
// no side effects.
func ValidateTransaction(tx Transaction) ValidationResult {
	fields := make(map[string]string)

	if strings.TrimSpace(tx.Description) == "" {
		fields["description"] = MsgDescriptionRequired
	}

	if tx.Value <= 0 {
		fields["value"] = MsgValuePositive
	}
	if math.IsNaN(tx.Value) || math.IsInf(tx.Value, 0) {
		fields["value"] = MsgValueNumeric
	}

	if tx.CategoryID == "" {
		fields["categoryId"] = MsgCategoryRequired
	}

	if !tx.Type.Valid() {
		fields["type"] = MsgTypeInvalid
	}

	if tx.Date.IsZero() {
		fields["date"] = MsgDateRequired
	}

	return ValidationResult{Valid: len(fields) == 0, Fields: fields}
}
