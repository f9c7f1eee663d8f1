package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "SaleDate is not a date",
			},
			wantMessage: "[PARSING] SaleDate is not a date",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "Failed to open sales.csv",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[STORAGE] Failed to open sales.csv: permission denied",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewStorageError("failed to open source", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	wrapped := fmt.Errorf("load sales: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad row"}
	err.WithContext("row", 3).WithContext("column", "SaleDate")

	require.NotNil(t, err.Context)
	assert.Equal(t, 3, err.Context["row"])
	assert.Equal(t, "SaleDate", err.Context["column"])
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("bad date", nil), ErrTypeParsing, "bad date"},
		{"storage", NewStorageError("disk full", nil), ErrTypeStorage, "disk full"},
		{"validation", NewAppValidationError("quantile out of range"), ErrTypeValidation, "quantile out of range"},
		{"not found", NewNotFoundError("sales.csv"), ErrTypeNotFound, "sales.csv not found"},
		{"config", NewConfigError("invalid format", nil), ErrTypeConfig, "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("sales", []string{"Quantity"})

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "sales is missing required columns [Quantity]")
	assert.Equal(t, "sales", err.Context["dataset"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("step load: %w", NewNotFoundError("website_access.csv"))

	assert.True(t, IsType(err, ErrTypeNotFound))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeNotFound))
	assert.False(t, IsType(nil, ErrTypeNotFound))
}
