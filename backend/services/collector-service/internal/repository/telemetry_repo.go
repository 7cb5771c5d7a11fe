package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"multisib/backend/services/collector-service/internal/models"
)

var (
	// ErrNoConnection is returned when the database was unreachable at startup.
	ErrNoConnection = errors.New("repository: no database connection")
	// ErrInvalidTableName rejects anything but a plain or schema-qualified identifier.
	ErrInvalidTableName = errors.New("repository: invalid table name")
	// ErrColumnMismatch is returned when the row does not match the column list.
	ErrColumnMismatch = errors.New("repository: row does not match columns")
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// TelemetryRepository appends telemetry rows.
type TelemetryRepository struct {
	db *sql.DB
}

// NewTelemetryRepository returns repository. db may be nil, in which case
// every Insert fails with ErrNoConnection.
func NewTelemetryRepository(db *sql.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// InsertQuery renders the insert statement for table.
func InsertQuery(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	cols := models.Columns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	), nil
}

// Insert stores one row and commits before returning.
func (r *TelemetryRepository) Insert(ctx context.Context, table string, row []any) error {
	if r.db == nil {
		return ErrNoConnection
	}
	if len(row) != models.ColumnCount {
		return fmt.Errorf("%w: got %d values, want %d", ErrColumnMismatch, len(row), models.ColumnCount)
	}

	query, err := InsertQuery(table)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, row...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("repository: insert into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: commit: %w", err)
	}
	return nil
}
