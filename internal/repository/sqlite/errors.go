package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"dataroom/internal/domain"
)

// isDuplicate reports unique violations, translated or raw
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func conflict(resourceType, name string) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s '%s' already exists", resourceType, name),
		ResourceType: resourceType,
	}
}
