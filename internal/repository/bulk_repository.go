package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/database"
)

// BulkRepository copies CSV dumps into the schema.
type BulkRepository struct {
	db *sqlx.DB
}

// NewBulkRepository constructs a BulkRepository.
func NewBulkRepository(db *sqlx.DB) *BulkRepository {
	return &BulkRepository{db: db}
}

// Load copies every table in the given order inside one transaction and then advances
// each id sequence past the largest loaded id. Either all tables load or none do.
func (r *BulkRepository) Load(ctx context.Context, tables []models.TableData, opts models.LoadOptions) (map[string]int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if opts.Truncate {
		names := make([]string, 0, len(tables))
		for _, table := range tables {
			names = append(names, pq.QuoteIdentifier(table.Name))
		}
		query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(names, ", "))
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return nil, fmt.Errorf("truncate tables: %w", err)
		}
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		if err := copyTable(ctx, tx, table); err != nil {
			return nil, database.TranslateError(err)
		}
		counts[table.Name] = len(table.Rows)
	}

	for _, table := range tables {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)", table.Name)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return nil, fmt.Errorf("advance %s sequence: %w", table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit load: %w", err)
	}
	return counts, nil
}

func copyTable(ctx context.Context, tx *sqlx.Tx, table models.TableData) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table.Name, table.Columns...))
	if err != nil {
		return fmt.Errorf("prepare copy %s: %w", table.Name, err)
	}
	for i, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy %s row %d: %w", table.Name, i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy %s: %w", table.Name, err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy %s: %w", table.Name, err)
	}
	return nil
}
