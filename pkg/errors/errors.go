package pkgerrors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation = -1001
	CodeNotFound   = -1002
	CodeNoScan     = -1003
	CodeStorage    = -1004
	CodeTelemetry  = -1005
	CodeUnknown    = -9999
)

type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg}
}

// NewNoScanError marks a create call that arrived before any physical
// scan was ever recorded.
func NewNoScanError() *AppError {
	return &AppError{Code: CodeNoScan, Message: "no scan available, scan a tag first"}
}

func NewStorageError(err error) *AppError {
	return &AppError{Code: CodeStorage, Message: "storage failure", Err: err}
}

func NewTelemetryError(field int, err error) *AppError {
	return &AppError{Code: CodeTelemetry, Message: fmt.Sprintf("telemetry fetch failed for field %d", field), Err: err}
}

func IsValidationError(err error) bool { return GetErrorCode(err) == CodeValidation }
func IsNotFoundError(err error) bool   { return GetErrorCode(err) == CodeNotFound }
func IsNoScanError(err error) bool     { return GetErrorCode(err) == CodeNoScan }
func IsStorageError(err error) bool    { return GetErrorCode(err) == CodeStorage }
func IsTelemetryError(err error) bool  { return GetErrorCode(err) == CodeTelemetry }

func GetErrorCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
