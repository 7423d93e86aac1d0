package logging

// Field names shared by all structured log lines.
const (
	FieldComponent = "component"
	FieldAccount   = "account"
	FieldTracker   = "tracker"
	FieldCategory  = "category"
	FieldEntryID   = "entry_id"
	FieldCount     = "count"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldError     = "error"
	FieldAction    = "action"
)

// Component names.
const (
	ComponentStore    = "store"
	ComponentBudget   = "budget"
	ComponentActivity = "activity"
	ComponentHistory  = "history"
	ComponentCLI      = "cli"
)
