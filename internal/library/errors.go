package library

import (
	"errors"
	"fmt"
)

// DomainError carries a machine-readable code through to the boundary layer
// so HTTP handlers can map failures without string matching.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeValidation = "VALIDATION"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeState      = "STATE"
	ErrCodePermission = "PERMISSION"
	ErrCodeInfra      = "INFRA"
)

func NewValidationError(msg string) error {
	return &DomainError{Code: ErrCodeValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Code: ErrCodeConflict, Message: msg}
}

func NewStateError(msg string) error {
	return &DomainError{Code: ErrCodeState, Message: msg}
}

func NewPermissionError(msg string) error {
	return &DomainError{Code: ErrCodePermission, Message: msg}
}

func NewInfraError(msg string, cause error) error {
	return &DomainError{Code: ErrCodeInfra, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// CodeOf returns the domain error code, or ErrCodeInfra for anything else.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInfra
}

func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }
func IsNotFound(err error) bool   { return CodeOf(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return CodeOf(err) == ErrCodeConflict }
func IsState(err error) bool      { return CodeOf(err) == ErrCodeState }
func IsPermission(err error) bool { return CodeOf(err) == ErrCodePermission }
