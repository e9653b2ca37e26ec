// Package services orchestrates the write and read paths of the core:
// validation gating writes to the record store, querying and summarizing
// reads from it. Every operation takes the owning user id explicitly.
package services

import (
	"context"
	"log/slog"

	"financeiro/internal/core"
	"financeiro/internal/storage"
)

// WriteResult is the outcome of a gated write. A failed validation is a
// normal result, not an error: the caller branches on Validation.Valid and
// presents the field messages. Errors are reserved for NotFound and
// storage faults.
type WriteResult struct {
	ID         string
	Validation core.ValidationResult
}

// TransactionService is the write path: Validator in front of the record
// store, with the receipt registry attached behind it.
type TransactionService struct {
	store    *storage.TransactionStore
	receipts *storage.ReceiptStore
}

func NewTransactionService(store *storage.TransactionStore, receipts *storage.ReceiptStore) *TransactionService {
	return &TransactionService{store: store, receipts: receipts}
}

// Create validates the candidate and persists it. A non-empty receiptURI
// is registered after the record exists and the locators are patched onto
// the record; the two writes hit different keys and are not atomic
// together.
func (s *TransactionService) Create(ctx context.Context, userID string, tx core.Transaction, receiptURI string) (WriteResult, error) {
	validation := core.ValidateTransaction(tx)
	if !validation.Valid {
		slog.DebugContext(ctx, "Transaction rejected by validator",
			"user_id", userID, "fields", len(validation.Fields))
		return WriteResult{Validation: validation}, nil
	}

	id, err := s.store.Create(ctx, userID, tx)
	if err != nil {
		return WriteResult{}, err
	}

	if receiptURI != "" && s.receipts != nil {
		path, url, err := s.receipts.Attach(ctx, userID, id, receiptURI)
		if err != nil {
			return WriteResult{}, err
		}
		patch := core.TransactionPatch{ReceiptURL: &url, ReceiptPath: &path}
		if err := s.store.Update(ctx, userID, id, patch); err != nil {
			return WriteResult{}, err
		}
	}

	return WriteResult{ID: id, Validation: validation}, nil
}

// Update merges the patch onto the stored record, re-validating the merged
// candidate before anything is written. Returns NotFound when the id is
// unknown.
func (s *TransactionService) Update(ctx context.Context, userID, id string, patch core.TransactionPatch) (WriteResult, error) {
	existing, err := s.store.FindByID(ctx, userID, id)
	if err != nil {
		return WriteResult{}, err
	}

	merged := existing
	patch.ApplyTo(&merged)
	validation := core.ValidateTransaction(merged)
	if !validation.Valid {
		return WriteResult{Validation: validation}, nil
	}

	if err := s.store.Update(ctx, userID, id, patch); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Validation: validation}, nil
}

// Delete removes the record; absent ids are a no-op success.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

// Get returns a single record by id.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.store.FindByID(ctx, userID, id)
}
