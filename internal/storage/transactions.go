// Package storage is the record store: it persists each user's transaction
// collection as one serialized list under a per-user namespace key and
// rewrites the whole list on every mutation.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"financeiro/internal/cache"
	"financeiro/internal/core"
	"financeiro/internal/kv"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize = 64
	defaultCacheTTL  = 30 * time.Second
)

// User-facing error messages.
const (
	MsgTransactionNotFound = "Transação não encontrada"
	MsgSaveFailed          = "Erro ao salvar transações"
	MsgLoadFailed          = "Erro ao carregar transações"
)

// TransactionStore owns the per-user transaction collections. Reads go
// through an LRU cache with duplicate loads collapsed; writes refresh the
// cached entry after the single-key overwrite.
type TransactionStore struct {
	kv    kv.Store
	cache cache.Cache[[]core.Transaction]
	group singleflight.Group

	now func() time.Time
}

func NewTransactionStore(store kv.Store) *TransactionStore {
	return NewTransactionStoreSized(store, defaultCacheSize, defaultCacheTTL)
}

// NewTransactionStoreSized overrides the cache dimensions, normally from
// application config.
func NewTransactionStoreSized(store kv.Store, cacheSize int, cacheTTL time.Duration) *TransactionStore {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &TransactionStore{
		kv:    store,
		cache: cache.NewLRUCache[[]core.Transaction](cacheSize, cacheTTL),
		now:   time.Now,
	}
}

// Load returns the user's full collection in insertion order. A missing key
// or a corrupt payload yields an empty collection, not an error; only a
// storage-layer fault is reported.
func (s *TransactionStore) Load(ctx context.Context, userID string) ([]core.Transaction, error) {
	key := kv.TransactionsKey(userID)

	if cached, ok := s.cache.Get(key); ok {
		return cloneTransactions(cached), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return nil, core.StorageFault(MsgLoadFailed, err)
		}
		if !ok {
			return []core.Transaction{}, nil
		}
		var txns []core.Transaction
		if err := json.Unmarshal(data, &txns); err != nil {
			slog.WarnContext(ctx, "Discarding unreadable transaction collection",
				"key", key, "error", err)
			return []core.Transaction{}, nil
		}
		return txns, nil
	})
	if err != nil {
		return nil, err
	}

	txns := v.([]core.Transaction)
	s.cache.Set(key, txns)
	return cloneTransactions(txns), nil
}

// Save overwrites the user's whole collection under its namespace key.
func (s *TransactionStore) Save(ctx context.Context, userID string, txns []core.Transaction) error {
	if txns == nil {
		txns = []core.Transaction{}
	}
	data, err := json.Marshal(txns)
	if err != nil {
		return core.StorageFault(MsgSaveFailed, err)
	}

	key := kv.TransactionsKey(userID)
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.cache.Delete(key)
		return core.StorageFault(MsgSaveFailed, err)
	}

	s.cache.Set(key, cloneTransactions(txns))
	return nil
}

// Create assigns a fresh id, stamps the record and appends it to the
// collection. The incoming date is normalized to its calendar day.
func (s *TransactionStore) Create(ctx context.Context, userID string, tx core.Transaction) (string, error) {
	txns, err := s.Load(ctx, userID)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	tx.ID = newTransactionID(now)
	tx.UserID = userID
	tx.Date = core.NormalizeDate(tx.Date)
	tx.CreatedAt = now
	tx.UpdatedAt = now

	txns = append(txns, tx)
	if err := s.Save(ctx, userID, txns); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"user_id", userID,
		"type", tx.Type,
		"value", tx.Value)
	return tx.ID, nil
}

// Update shallow-merges the patch onto the stored record and re-stamps
// UpdatedAt. The collection is untouched when the id is unknown.
func (s *TransactionStore) Update(ctx context.Context, userID, id string, patch core.TransactionPatch) error {
	txns, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range txns {
		if txns[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return core.NotFound(MsgTransactionNotFound)
	}

	patch.ApplyTo(&txns[idx])
	txns[idx].UserID = userID
	txns[idx].UpdatedAt = s.now().UTC()

	if err := s.Save(ctx, userID, txns); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", id, "user_id", userID)
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op success.
func (s *TransactionStore) Delete(ctx context.Context, userID, id string) error {
	txns, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	filtered := txns[:0:0]
	for _, tx := range txns {
		if tx.ID != id {
			filtered = append(filtered, tx)
		}
	}
	if len(filtered) == len(txns) {
		return nil
	}

	if err := s.Save(ctx, userID, filtered); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

// FindByID scans the user's collection for a single record.
func (s *TransactionStore) FindByID(ctx context.Context, userID, id string) (core.Transaction, error) {
	txns, err := s.Load(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range txns {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, core.NotFound(MsgTransactionNotFound)
}

// newTransactionID is unique for all practical purposes within a user's
// collection: millisecond timestamp plus a random suffix, no coordination
// needed for a single local writer.
func newTransactionID(now time.Time) string {
	return fmt.Sprintf("trans_%d_%s", now.UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

func cloneTransactions(in []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(in))
	copy(out, in)
	return out
}
