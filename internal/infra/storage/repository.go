package storage

import (
	"context"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// ReportRepository persists triage reports.
type ReportRepository interface {
	// Save stores a report.
	Save(ctx context.Context, report *domain.TriageReport) error

	// GetByID returns a report by id, or nil when not found.
	GetByID(ctx context.Context, id string) (*domain.TriageReport, error)

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]*domain.TriageReport, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int, error)
}
