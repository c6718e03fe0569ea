package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing fields (propagated through the call chain via context)
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldBusinessID is the tenant the request is scoped to
	FieldBusinessID = "business_id"

	// FieldUsername is the authenticated caller
	FieldUsername = "username"

	// FieldJobID is the job being read or mutated
	FieldJobID = "job_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldOperation is the core operation (list, get, create, update, delete, stats, import)
	FieldOperation = "operation"
)

// ============================================
// Metric fields (Entry level, used for aggregation)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation or HTTP status
	FieldStatus = "status"
)
