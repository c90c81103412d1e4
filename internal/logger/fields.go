package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard field names used across components
const (
	FieldComponent  = "component"
	FieldQuery      = "query"
	FieldPage       = "page"
	FieldGeneration = "generation"
	FieldCount      = "count"
	FieldTotal      = "total"
	FieldDurationMs = "duration_ms"
	FieldStatus     = "status"
	FieldMethod     = "method"
)
