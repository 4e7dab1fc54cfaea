package database

import (
	"errors"
	"fmt"
	"strings"

	domainErr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	"gorm.io/gorm"
)

// EntityType represents the type of record for not-found mapping
type EntityType string

const (
	// EntityTypeView represents a stored report view
	EntityTypeView EntityType = "view"
	// EntityTypeMapTable represents a migration map table
	EntityTypeMapTable EntityType = "map_table"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error, keeping the driver message
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "duplicate entry") ||
		strings.Contains(errMsg, "unique constraint"):
		return fmt.Errorf("%w: %s: %v", domainErr.ErrViewExists, operation, err)

	// postgres, mysql and sqlite phrase a missing relation differently
	case strings.Contains(errMsg, "no such table") ||
		strings.Contains(errMsg, "doesn't exist") ||
		(strings.Contains(errMsg, "relation") && strings.Contains(errMsg, "does not exist")):
		return fmt.Errorf("%w: %s: %v", domainErr.ErrTableNotFound, operation, err)

	case strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no connection") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "database is closed"):
		return fmt.Errorf("%w: %s: %v", domainErr.ErrDatabaseConnection, operation, err)

	case strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded"):
		return fmt.Errorf("%w: %s operation timed out", domainErr.ErrDatabaseConnection, operation)

	default:
		return fmt.Errorf("%w: %s: %v", domainErr.ErrInternalServer, operation, err)
	}
}

// MapEntityNotFoundError maps a missing record to the not-found error of its type
func (m *ErrorMapper) MapEntityNotFoundError(err error, entityType EntityType, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		switch entityType {
		case EntityTypeView:
			return domainErr.ErrViewNotFound
		default:
			return domainErr.ErrTableNotFound
		}
	}

	return m.MapError(err, operation)
}
