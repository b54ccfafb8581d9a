// Package memory provides an in-memory report store used when no
// database is configured. Reports do not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// ReportRepo implements storage.ReportRepository in memory.
type ReportRepo struct {
	mu      sync.RWMutex
	reports map[string]*domain.TriageReport
}

// NewReportRepo creates an empty in-memory report repository.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{reports: make(map[string]*domain.TriageReport)}
}

// Save stores a report.
func (r *ReportRepo) Save(ctx context.Context, report *domain.TriageReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

// GetByID returns a report by id, or nil when not found.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.TriageReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

// List returns the most recent reports, newest first.
func (r *ReportRepo) List(ctx context.Context, limit int) ([]*domain.TriageReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.TriageReport, 0, len(r.reports))
	for _, report := range r.reports {
		copied := *report
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Count returns the number of stored reports.
func (r *ReportRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reports), nil
}
