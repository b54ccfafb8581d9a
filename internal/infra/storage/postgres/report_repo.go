package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// ReportRepo implements storage.ReportRepository using PostgreSQL.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new PostgreSQL report repository.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

type reportRow struct {
	ID          string          `db:"id"`
	CategoryKey string          `db:"category_key"`
	Context     json.RawMessage `db:"context"`
	Diagnosis   []byte          `db:"diagnosis"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Save stores a triage report. The normalized context and diagnosis are
// kept as JSONB; the category key is a separate column for filtering.
func (r *ReportRepo) Save(ctx context.Context, report *domain.TriageReport) error {
	ctxJSON, err := json.Marshal(report.Context)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}

	var diagJSON []byte
	if report.Diagnosis != nil {
		diagJSON, err = json.Marshal(report.Diagnosis)
		if err != nil {
			return fmt.Errorf("failed to encode diagnosis: %w", err)
		}
	}

	query := `
		INSERT INTO triage_reports (id, category_key, context, diagnosis, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(
		ctx,
		query,
		report.ID,
		report.CategoryKey,
		ctxJSON,
		diagJSON,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByID returns a report by id.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.TriageReport, error) {
	query := `
		SELECT id, category_key, context, diagnosis, created_at
		FROM triage_reports
		WHERE id = $1
	`

	var row reportRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return rowToReport(&row)
}

// List returns the most recent reports, newest first.
func (r *ReportRepo) List(ctx context.Context, limit int) ([]*domain.TriageReport, error) {
	query := `
		SELECT id, category_key, context, diagnosis, created_at
		FROM triage_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*domain.TriageReport, 0, len(rows))
	for i := range rows {
		report, err := rowToReport(&rows[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Count returns the number of stored reports.
func (r *ReportRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM triage_reports`)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

func rowToReport(row *reportRow) (*domain.TriageReport, error) {
	report := &domain.TriageReport{
		ID:          row.ID,
		CategoryKey: row.CategoryKey,
		CreatedAt:   row.CreatedAt,
	}
	if err := json.Unmarshal(row.Context, &report.Context); err != nil {
		return nil, fmt.Errorf("invalid stored context: %w", err)
	}
	if len(row.Diagnosis) > 0 {
		var d domain.Diagnosis
		if err := json.Unmarshal(row.Diagnosis, &d); err != nil {
			return nil, fmt.Errorf("invalid stored diagnosis: %w", err)
		}
		report.Diagnosis = &d
	}
	return report, nil
}
