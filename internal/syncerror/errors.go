// Package syncerror defines the typed errors raised by synchronization, import and
// provider code.
package syncerror

import (
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned when an account id does not resolve to a stored account.
var ErrAccountNotFound = errors.New("account not found")

// ProviderError represents a failure while talking to a bank data provider.
// A provider error aborts the sync of the affected account.
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: %s failed with status %d: %v",
			e.Provider, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// BatchInsertError represents a failed batch write during sync or import.
// It is logged and the batch is skipped.
type BatchInsertError struct {
	AccountID  string
	BatchIndex int
	Size       int
	Err        error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("insert batch %d (%d rows) for account %s: %v",
		e.BatchIndex, e.Size, e.AccountID, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// ValidationError represents a row-level validation failure during manual import.
type ValidationError struct {
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: invalid %s: %s", e.Row, e.Field, e.Reason)
}

// ImportAbortedError is returned when more than half of the imported rows are invalid.
// Nothing is persisted in that case.
type ImportAbortedError struct {
	Invalid int
	Total   int
	Errors  []error
}

func (e *ImportAbortedError) Error() string {
	return fmt.Sprintf("import aborted: %d of %d rows are invalid", e.Invalid, e.Total)
}
