package service

import (
	"errors"
	"fmt"

	"multisib/backend/services/collector-service/internal/models"
)

// ErrInvalidFieldCount means a row lost or gained positions.
var ErrInvalidFieldCount = errors.New("service: invalid number of parameters")

// ValidateRecord checks the row shape only. Absent measurements are NULLs, not errors.
func ValidateRecord(row []any) error {
	if len(row) != models.ColumnCount {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidFieldCount, len(row), models.ColumnCount)
	}
	return nil
}
