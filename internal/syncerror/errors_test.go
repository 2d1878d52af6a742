package syncerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	inner := errors.New("connection reset")
	err := &ProviderError{Provider: "pluggy", Operation: "get transactions", StatusCode: 502, Err: inner}

	assert.Equal(t, "provider pluggy: get transactions failed with status 502: connection reset", err.Error())
	assert.ErrorIs(t, err, inner)

	noStatus := &ProviderError{Provider: "gocardless", Operation: "get accounts", Err: inner}
	assert.Equal(t, "provider gocardless: get accounts failed: connection reset", noStatus.Error())
}

func TestProviderError_As(t *testing.T) {
	wrapped := fmt.Errorf("sync account acc-1: %w", &ProviderError{Provider: "pluggy", Operation: "x", Err: errors.New("y")})

	var perr *ProviderError
	assert.True(t, errors.As(wrapped, &perr))
	assert.Equal(t, "pluggy", perr.Provider)
}

func TestBatchInsertError(t *testing.T) {
	inner := errors.New("disk full")
	err := &BatchInsertError{AccountID: "acc-1", BatchIndex: 2, Size: 1000, Err: inner}

	assert.Equal(t, "insert batch 2 (1000 rows) for account acc-1: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "row 3: invalid amount: required", (&ValidationError{Row: 3, Field: "amount", Reason: "required"}).Error())
	assert.Equal(t, "row 4: description or merchant required", (&ValidationError{Row: 4, Reason: "description or merchant required"}).Error())
}

func TestImportAbortedError(t *testing.T) {
	err := &ImportAbortedError{Invalid: 6, Total: 10}
	assert.Equal(t, "import aborted: 6 of 10 rows are invalid", err.Error())
}
