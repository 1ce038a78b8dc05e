package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrVariableNotFound = fmt.Errorf("%w: variable", ErrNotFound)

	// Request-shape errors
	ErrInvalidRequest    = errors.New("invalid analysis request")
	ErrUnknownKind       = fmt.Errorf("%w: unknown analysis kind", ErrInvalidRequest)
	ErrWrongVariableType = errors.New("wrong variable type")
	ErrGroupCount        = errors.New("unsupported number of groups")

	// Data-adequacy errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSingularDesign   = errors.New("singular regression design")

	// Dataset construction errors
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedColumns   = errors.New("columns have different lengths")
)

// Error constructors with context

// NewVariableNotFoundError names every requested variable that the dataset lacks.
func NewVariableNotFoundError(names ...string) error {
	return fmt.Errorf("%w: %s", ErrVariableNotFound, strings.Join(quoteAll(names), ", "))
}

func NewVariableTypeError(name, want, got string) error {
	return fmt.Errorf("%w: variable '%s' is %s, %s required", ErrWrongVariableType, name, got, want)
}

func NewGroupCountError(name string, want string, got int) error {
	return fmt.Errorf("%w: grouping variable '%s' has %d categories, %s required", ErrGroupCount, name, got, want)
}

func NewRequestError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers

// IsRequestShapeError reports failures raised before any computation: unknown kinds,
// wrong arity, missing columns, wrong column types and unsupported group counts.
func IsRequestShapeError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrVariableNotFound) ||
		errors.Is(err, ErrWrongVariableType) ||
		errors.Is(err, ErrGroupCount)
}

func IsDataAdequacyError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrSingularDesign)
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "'" + n + "'"
	}
	return out
}
