package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/kv"
)

const MsgReceiptSaveFailed = "Erro ao salvar comprovante"

// Receipt is a stored locator for an attached receipt image. The bytes
// themselves live wherever the picker put them; we only keep the reference.
type Receipt struct {
	URI           string    `json:"uri"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ReceiptStore keeps the per-user receipt locator map under
// receipts:<userId>.
type ReceiptStore struct {
	kv  kv.Store
	now func() time.Time
}

func NewReceiptStore(store kv.Store) *ReceiptStore {
	return &ReceiptStore{kv: store, now: time.Now}
}

// Attach registers a receipt locator for a transaction and returns the
// storage path (the map key) and the display URL.
func (s *ReceiptStore) Attach(ctx context.Context, userID, transactionID, uri string) (path, url string, err error) {
	receipts, err := s.load(ctx, userID)
	if err != nil {
		return "", "", err
	}

	path = fmt.Sprintf("%s_%d", transactionID, s.now().UTC().UnixMilli())
	receipts[path] = Receipt{
		URI:           uri,
		TransactionID: transactionID,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.save(ctx, userID, receipts); err != nil {
		return "", "", err
	}

	slog.InfoContext(ctx, "Receipt attached",
		"user_id", userID, "transaction_id", transactionID, "path", path)
	return path, uri, nil
}

// Remove drops the locator under the given path. Removing an absent path
// is a no-op success.
func (s *ReceiptStore) Remove(ctx context.Context, userID, path string) error {
	receipts, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := receipts[path]; !ok {
		return nil
	}
	delete(receipts, path)
	return s.save(ctx, userID, receipts)
}

// List returns all receipt locators of the user.
func (s *ReceiptStore) List(ctx context.Context, userID string) (map[string]Receipt, error) {
	return s.load(ctx, userID)
}

func (s *ReceiptStore) load(ctx context.Context, userID string) (map[string]Receipt, error) {
	data, ok, err := s.kv.Get(ctx, kv.ReceiptsKey(userID))
	if err != nil {
		return nil, core.StorageFault(MsgLoadFailed, err)
	}
	if !ok {
		return map[string]Receipt{}, nil
	}
	var receipts map[string]Receipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		slog.WarnContext(ctx, "Discarding unreadable receipt map",
			"user_id", userID, "error", err)
		return map[string]Receipt{}, nil
	}
	if receipts == nil {
		receipts = map[string]Receipt{}
	}
	return receipts, nil
}

func (s *ReceiptStore) save(ctx context.Context, userID string, receipts map[string]Receipt) error {
	data, err := json.Marshal(receipts)
	if err != nil {
		return core.StorageFault(MsgReceiptSaveFailed, err)
	}
	if err := s.kv.Set(ctx, kv.ReceiptsKey(userID), data); err != nil {
		return core.StorageFault(MsgReceiptSaveFailed, err)
	}
	return nil
}
