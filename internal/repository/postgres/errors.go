package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dataroom/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// IsPgInvalidInputError checks if a value was rejected by its column type,
// such as a malformed UUID or a NUL byte in a name
func IsPgInvalidInputError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 22P02 = invalid_text_representation, 22021 = character_not_in_repertoire
		return pgErr.Code == "22P02" || pgErr.Code == "22021"
	}
	return false
}

// IsPgRetryableError checks if the server aborted the statement to resolve
// a conflict with a concurrent transaction
func IsPgRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 = serialization_failure, 40P01 = deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// WrapQueryError prefixes err with op. Input rejected by a column type is
// reported as a validation failure, and a deadlock victim as a concurrent update.
func WrapQueryError(op string, err error) error {
	switch {
	case IsPgInvalidInputError(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrValidation, err)
	case IsPgRetryableError(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConcurrentUpdate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapLookupError is WrapQueryError for single-row lookups by key. A missing
// row and a key the column type cannot hold (a malformed UUID) both mean the
// resource does not exist, matching what the SQLite backend reports.
func WrapLookupError(resource, key string, err error) error {
	if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
		return fmt.Errorf("%s %s: %w", resource, key, domain.ErrNotFound)
	}
	return WrapQueryError("get "+resource, err)
}

// ConstraintName returns the violated constraint of a postgres error, or ""
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// NewConflictError builds the structured conflict returned for unique violations.
// resourceID may be empty: the existing row cannot be queried from an aborted transaction.
func NewConflictError(resourceType, name, resourceID string) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s '%s' already exists", resourceType, name),
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}
