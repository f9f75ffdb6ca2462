// internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/models"
)

// MemoryRepository keeps all application records in process memory.
// Data lives from process start to process end and resets on restart.
type MemoryRepository struct {
	mu           sync.RWMutex
	applications map[string]*models.Application
	counter      int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		applications: make(map[string]*models.Application),
	}
}

func (r *MemoryRepository) Create(_ context.Context, app *models.Application) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	stored := *app
	stored.ID = fmt.Sprintf("APP%05d", r.counter)
	stored.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	stored.Status = models.StatusProcessing

	r.applications[stored.ID] = &stored
	return cloneApplication(&stored), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.applications[id]
	if !ok {
		return nil, errors.NewApplicationNotFoundError(id)
	}
	return cloneApplication(app), nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, mutate func(*models.Application)) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.applications[id]
	if !ok {
		return nil, errors.NewApplicationNotFoundError(id)
	}

	mutate(app)
	app.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return cloneApplication(app), nil
}

func (r *MemoryRepository) List(_ context.Context, filter *models.ApplicationFilter) ([]*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]*models.Application, 0, len(r.applications))
	for _, app := range r.applications {
		if matchesFilter(app, filter) {
			apps = append(apps, cloneApplication(app))
		}
	}

	// Newest first; IDs are monotonic so they break timestamp ties
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt != apps[j].CreatedAt {
			return apps[i].CreatedAt > apps[j].CreatedAt
		}
		return apps[i].ID > apps[j].ID
	})

	if filter != nil && filter.Limit > 0 && len(apps) > filter.Limit {
		apps = apps[:filter.Limit]
	}
	return apps, nil
}

func (r *MemoryRepository) Stats(_ context.Context) (*models.ApplicationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.ApplicationStats{Total: len(r.applications)}
	scoreSum := 0
	for _, app := range r.applications {
		if app.Decision != nil {
			switch app.Decision.Result {
			case models.ResultApproved:
				stats.Approved++
			case models.ResultRejected:
				stats.Rejected++
			case models.ResultNeedDocuments:
				stats.Pending++
			}
		}
		if app.RiskScore != nil {
			scoreSum += app.RiskScore.Score
		}
	}
	if stats.Total > 0 {
		stats.AvgRiskScore = int(float64(scoreSum)/float64(stats.Total) + 0.5)
	}
	return stats, nil
}

func matchesFilter(app *models.Application, filter *models.ApplicationFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Status != "" && app.Status != filter.Status {
		return false
	}
	if filter.Result != "" {
		if app.Decision == nil || app.Decision.Result != filter.Result {
			return false
		}
	}
	return true
}

// cloneApplication returns a shallow copy so callers cannot mutate the
// stored record outside Update. Nested records are treated as immutable
// once attached.
func cloneApplication(app *models.Application) *models.Application {
	copied := *app
	return &copied
}
