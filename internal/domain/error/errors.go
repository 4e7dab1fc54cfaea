package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes for standardized API and CLI responses
const (
	// 4xxx - Client and operator errors
	CodeUnsupportedIDMap   = 4001
	CodeViewExists         = 4002
	CodeViewInvalid        = 4003
	CodeOperatorAbort      = 4004
	CodeInvalidDefinition  = 4005
	CodeInvalidPage        = 4006
	CodeAccessDenied       = 4030
	CodeMigrationNotFound  = 4040
	CodeViewNotFound       = 4041
	CodeTableNotFound      = 4042
	CodeGroupNotFound      = 4043
	CodeEntityTypeNotFound = 4044

	// 5xxx - Server errors
	CodeInternalServer      = 5000
	CodeDatabaseConnection  = 5001
	CodeMapTableUnavailable = 5002
)

// Base error types
var (
	// ErrUnsupportedIDMap is returned when a migration does not track rows in a relational map table
	ErrUnsupportedIDMap = errors.New("unsupported id-map type")

	// ErrViewExists is returned when a report view with the same identifier is already registered
	ErrViewExists = errors.New("view already exists")

	// ErrViewInvalid is returned when a report view fails validation
	ErrViewInvalid = errors.New("view failed validation")

	// ErrViewNotFound is returned when the requested report view doesn't exist
	ErrViewNotFound = errors.New("view not found")

	// ErrMigrationNotFound is returned when a requested migration is not registered
	ErrMigrationNotFound = errors.New("migration not found")

	// ErrGroupNotFound is returned when a migration group is not registered
	ErrGroupNotFound = errors.New("migration group not found")

	// ErrEntityTypeNotFound is returned when entity type metadata is missing
	ErrEntityTypeNotFound = errors.New("entity type not found")

	// ErrNoMigrations is returned when a selection matches no migration
	ErrNoMigrations = errors.New("no migration(s) found")

	// ErrNoTables is returned when a cleanup selection matches no table
	ErrNoTables = errors.New("no table(s) found")

	// ErrTableNotFound is returned when a table does not exist
	ErrTableNotFound = errors.New("table not found")

	// ErrMapTableUnavailable is returned when a map table can't be reached or created
	ErrMapTableUnavailable = errors.New("map table unavailable")

	// ErrOperatorAbort is returned when the operator declines a confirmation
	ErrOperatorAbort = errors.New("aborted by operator")

	// ErrInvalidDefinition is returned when a migration definition is malformed
	ErrInvalidDefinition = errors.New("invalid migration definition")

	// ErrInvalidPage is returned when a report page lies outside the addressable rows
	ErrInvalidPage = errors.New("invalid page number")

	// ErrAccessDenied is returned when the caller lacks a permission
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidIdentifier is returned when a table or column name is not a safe SQL identifier
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedIDMap):
		return CodeUnsupportedIDMap
	case errors.Is(err, ErrViewExists):
		return CodeViewExists
	case errors.Is(err, ErrViewInvalid):
		return CodeViewInvalid
	case errors.Is(err, ErrOperatorAbort):
		return CodeOperatorAbort
	case errors.Is(err, ErrInvalidDefinition), errors.Is(err, ErrInvalidIdentifier):
		return CodeInvalidDefinition
	case errors.Is(err, ErrInvalidPage):
		return CodeInvalidPage
	case errors.Is(err, ErrAccessDenied):
		return CodeAccessDenied
	case errors.Is(err, ErrMigrationNotFound):
		return CodeMigrationNotFound
	case errors.Is(err, ErrViewNotFound):
		return CodeViewNotFound
	case errors.Is(err, ErrTableNotFound):
		return CodeTableNotFound
	case errors.Is(err, ErrGroupNotFound):
		return CodeGroupNotFound
	case errors.Is(err, ErrEntityTypeNotFound):
		return CodeEntityTypeNotFound
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	case errors.Is(err, ErrMapTableUnavailable):
		return CodeMapTableUnavailable
	default:
		return CodeInternalServer
	}
}

// SkipError explains why a report view was not generated for a migration
type SkipError struct {
	ViewID string
	Reason string
	Err    error
}

// Error implements the error interface for SkipError
func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped %s view creation: %s", e.ViewID, e.Reason)
}

// Unwrap returns the underlying error
func (e *SkipError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *SkipError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "skip",
		"view_id":    e.ViewID,
		"reason":     e.Reason,
		"error_code": ErrorCode(e.Err),
	}
}

// NewUnsupportedIDMapError creates a skip error for a migration whose id map is not relational
func NewUnsupportedIDMapError(viewID, kind string) error {
	return &SkipError{
		ViewID: viewID,
		Reason: fmt.Sprintf("the id map is of type %q, not a relational map", kind),
		Err:    ErrUnsupportedIDMap,
	}
}

// NewViewExistsError creates a skip error for a view that is already registered
func NewViewExistsError(viewID string) error {
	return &SkipError{
		ViewID: viewID,
		Reason: "the view already exists",
		Err:    ErrViewExists,
	}
}

// IsSkipError checks if the error is a non-fatal skip condition
func IsSkipError(err error) bool {
	var skip *SkipError
	return errors.As(err, &skip)
}

// ValidationError carries every validation message of a view, keyed by display ID
type ValidationError struct {
	ViewID string
	Errors map[string][]string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("failed %s view creation: %s", e.ViewID, strings.Join(e.Messages(), "; "))
}

// Is checks if the target error is an ErrViewInvalid
func (e *ValidationError) Is(target error) bool {
	return target == ErrViewInvalid
}

// Messages flattens the errors, ordered by display ID then by occurrence
func (e *ValidationError) Messages() []string {
	displays := make([]string, 0, len(e.Errors))
	for display := range e.Errors {
		displays = append(displays, display)
	}
	sort.Strings(displays)

	var messages []string
	for _, display := range displays {
		messages = append(messages, e.Errors[display]...)
	}
	return messages
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation",
		"view_id":    e.ViewID,
		"errors":     e.Errors,
		"error_code": CodeViewInvalid,
	}
}

// NewValidationError creates a validation error, or returns nil when errs is empty
func NewValidationError(viewID string, errs map[string][]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{ViewID: viewID, Errors: errs}
}

// TableError reports a failed schema operation on a map table
type TableError struct {
	Table     string
	Column    string
	Operation string
	Err       error
}

// Error implements the error interface for TableError
func (e *TableError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s failed on table %s: %v", e.Operation, e.Table, e.Err)
	}
	return fmt.Sprintf("%s failed on %s.%s: %v", e.Operation, e.Table, e.Column, e.Err)
}

// Unwrap returns the underlying error
func (e *TableError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TableError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "table",
		"table":      e.Table,
		"column":     e.Column,
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewTableError creates a detailed table operation error
func NewTableError(table, column, operation string, err error) error {
	return &TableError{Table: table, Column: column, Operation: operation, Err: err}
}

// NotFoundError names the identifiers that could not be resolved
type NotFoundError struct {
	Kind string
	IDs  []string
	Err  error
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, strings.Join(e.IDs, ", "))
}

// Unwrap returns the underlying error
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewMigrationNotFoundError creates an error listing unknown migration IDs
func NewMigrationNotFoundError(ids ...string) error {
	return &NotFoundError{Kind: "migration(s)", IDs: ids, Err: ErrMigrationNotFound}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrMigrationNotFound) ||
		errors.Is(err, ErrViewNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrEntityTypeNotFound) ||
		errors.Is(err, ErrTableNotFound)
}

// IsOperatorAbort checks if the operator declined a confirmation
func IsOperatorAbort(err error) bool {
	return errors.Is(err, ErrOperatorAbort)
}
