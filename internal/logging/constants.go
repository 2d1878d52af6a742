package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldAccountID    = "account_id"
	FieldUserID       = "user_id"
	FieldExternalID   = "external_id"
	FieldProvider     = "provider"
	FieldCategory     = "category"
	FieldSubcategory  = "subcategory"
	FieldConfidence   = "confidence"
	FieldReason       = "reason"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldCount        = "count"
	FieldBatch        = "batch"
	FieldLookbackDays = "lookback_days"
	FieldFullSync     = "full_sync"
	FieldInputFile    = "input_file"
	FieldCostType     = "cost_type"
)
