package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

const ledgerTable = "placement_records"

// LedgerSQLRepository keeps the ledger in PostgreSQL with the same
// load-everything/rewrite-everything contract as the CSV file.
type LedgerSQLRepository struct {
	db       *sqlx.DB
	sb       squirrel.StatementBuilderType
	observer SourceObserver
}

// NewLedgerSQLRepository constructs a LedgerSQLRepository.
func NewLedgerSQLRepository(db *sqlx.DB, observer SourceObserver) *LedgerSQLRepository {
	return &LedgerSQLRepository{
		db:       db,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		observer: observer,
	}
}

// Load returns every row ordered by record id.
func (r *LedgerSQLRepository) Load(ctx context.Context) ([]models.PlacementRecord, error) {
	defer observe(r.observer, "ledger_sql", time.Now())

	query, args, err := r.sb.Select(LedgerColumns...).
		From(ledgerTable).
		OrderBy("record_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ledger select: %w", err)
	}

	rows := []models.PlacementRecord{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return rows, nil
}

// Save replaces the table contents in one transaction.
func (r *LedgerSQLRepository) Save(ctx context.Context, rows []models.PlacementRecord) (err error) {
	defer observe(r.observer, "ledger_sql_save", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del, args, err := r.sb.Delete(ledgerTable).ToSql()
	if err != nil {
		return fmt.Errorf("build ledger delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	if len(rows) > 0 {
		insert := r.sb.Insert(ledgerTable).Columns(LedgerColumns...)
		for _, rec := range rows {
			insert = insert.Values(
				rec.RecordID,
				rec.CompanyID,
				rec.CompanyName,
				rec.CampusType,
				rec.RecruiterCode,
				rec.RecruiterName,
				rec.PlacementOrigin,
				rec.Status,
				rec.StudentsPlaced,
				rec.Role,
				rec.Package,
				rec.StudentNames,
				rec.ClassDistribution,
			)
		}
		var query string
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build ledger insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert ledger rows: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger save: %w", err)
	}
	return nil
}
