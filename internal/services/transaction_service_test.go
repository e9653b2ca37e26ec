package services

import (
	"context"
	"errors"
	"testing"

	"financeiro/internal/core"
	"financeiro/internal/kv"
	"financeiro/internal/storage"
)

func newWriteFixture(t *testing.T) (*TransactionService, *storage.TransactionStore, *storage.ReceiptStore) {
	t.Helper()
	mem := kv.NewMemory()
	store := storage.NewTransactionStore(mem)
	receipts := storage.NewReceiptStore(mem)
	return NewTransactionService(store, receipts), store, receipts
}

func TestCreateRejectsInvalidWithoutWriting(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWriteFixture(t)

	res, err := svc.Create(ctx, "user_1", core.Transaction{Description: "  ", Value: -1}, "")
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if res.Validation.Valid || res.ID != "" {
		t.Fatalf("expected rejected result: %+v", res)
	}
	if _, ok := res.Validation.Fields["description"]; !ok {
		t.Fatalf("missing description error: %v", res.Validation.Fields)
	}

	txns, _ := store.Load(ctx, "user_1")
	if len(txns) != 0 {
		t.Fatalf("store touched by invalid create: %d", len(txns))
	}
}

func TestCreateValid(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWriteFixture(t)

	res, err := svc.Create(ctx, "user_1", tx("mercado", 100, core.Expense, "1", day(5)), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !res.Validation.Valid || res.ID == "" {
		t.Fatalf("expected accepted result: %+v", res)
	}
	if _, err := store.FindByID(ctx, "user_1", res.ID); err != nil {
		t.Fatalf("record missing after create: %v", err)
	}
}

func TestCreateWithReceipt(t *testing.T) {
	ctx := context.Background()
	svc, store, receipts := newWriteFixture(t)

	res, err := svc.Create(ctx, "user_1", tx("mercado", 100, core.Expense, "1", day(5)), "file:///img/nota.jpg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.FindByID(ctx, "user_1", res.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ReceiptURL != "file:///img/nota.jpg" || got.ReceiptPath == "" {
		t.Fatalf("receipt locators not patched: %+v", got)
	}

	stored, err := receipts.List(ctx, "user_1")
	if err != nil {
		t.Fatalf("list receipts: %v", err)
	}
	r, ok := stored[got.ReceiptPath]
	if !ok || r.TransactionID != res.ID {
		t.Fatalf("receipt not registered: %v", stored)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWriteFixture(t)

	created, _ := svc.Create(ctx, "user_1", tx("mercado", 100, core.Expense, "1", day(5)), "")

	value := 50.0
	_, err := svc.Update(ctx, "user_1", "trans_missing", core.TransactionPatch{Value: &value})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	got, _ := store.FindByID(ctx, "user_1", created.ID)
	if got.Value != 100 {
		t.Fatalf("collection changed by failed update: %+v", got)
	}
}

func TestUpdateValidatesMergedRecord(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWriteFixture(t)

	created, _ := svc.Create(ctx, "user_1", tx("mercado", 100, core.Expense, "1", day(5)), "")

	bad := -10.0
	res, err := svc.Update(ctx, "user_1", created.ID, core.TransactionPatch{Value: &bad})
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if res.Validation.Valid {
		t.Fatalf("expected rejection: %+v", res)
	}
	if got, _ := store.FindByID(ctx, "user_1", created.ID); got.Value != 100 {
		t.Fatalf("record changed by rejected update: %+v", got)
	}

	good := 75.5
	res, err = svc.Update(ctx, "user_1", created.ID, core.TransactionPatch{Value: &good})
	if err != nil || !res.Validation.Valid {
		t.Fatalf("update: %+v %v", res, err)
	}
	if got, _ := store.FindByID(ctx, "user_1", created.ID); got.Value != 75.5 {
		t.Fatalf("record not updated: %+v", got)
	}
}

func TestDeletePassthroughIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newWriteFixture(t)

	created, _ := svc.Create(ctx, "user_1", tx("mercado", 100, core.Expense, "1", day(5)), "")

	if err := svc.Delete(ctx, "user_1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "user_1", created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user_1", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}
