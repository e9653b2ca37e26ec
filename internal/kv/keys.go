package kv

// Persisted key layout. A user's whole transaction collection lives under a
// single namespace key; same for the receipt locator map.
const (
	KeyCurrentUser         = "currentUser"
	KeyUsers               = "users"
	KeyTestUserInitialized = "testUserInitialized"

	transactionsPrefix = "transactions:"
	receiptsPrefix     = "receipts:"
)

// TransactionsKey returns the namespace key for a user's transaction
// collection.
func TransactionsKey(userID string) string {
	return transactionsPrefix + userID
}

// ReceiptsKey returns the namespace key for a user's receipt locator map.
func ReceiptsKey(userID string) string {
	return receiptsPrefix + userID
}
