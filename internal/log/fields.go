package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldTxID      = "transaction_id"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldCount     = "count"
	FieldCursor    = "cursor"
	FieldPageSize  = "page_size"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentQuery   = "query"
	ComponentSummary = "summary"
	ComponentSession = "session"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpSummarize = "summarize"
	OpValidate  = "validate"
	OpLogin     = "login"
	OpLogout    = "logout"
	OpRegister  = "register"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
