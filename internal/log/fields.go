package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldEntryID   = "entry_id"
	FieldKey       = "key"
	FieldCount     = "count"
	FieldBackend   = "backend"
)

// Components
const (
	ComponentApp      = "app"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentActivity = "activity"
	ComponentGit      = "git"
)

// Operations
const (
	OpLoad    = "load"
	OpPersist = "persist"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpImport  = "import"
	OpCommit  = "commit"
)
