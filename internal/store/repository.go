// internal/store/repository.go
package store

import (
	"context"

	"loan-origination-workers/internal/models"
)

// Repository is the application record store shared by all workers.
// Records are keyed by generated application IDs (APP00001, APP00002, ...).
// Update takes a mutator so a read-modify-write stays atomic in the
// in-memory backend.
type Repository interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, id string, mutate func(*models.Application)) (*models.Application, error)
	List(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error)
	Stats(ctx context.Context) (*models.ApplicationStats, error)
}
