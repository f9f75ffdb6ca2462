// internal/store/memory_test.go
package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"loan-origination-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestApplication(name string) *models.Application {
	return &models.Application{
		Applicant: &models.ApplicantInfo{Name: name},
		Documents: []string{"id_document", "salary_slip", "bank_statement"},
	}
}

func TestMemoryRepository_Create(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, createTestApplication("Priya Sharma"))
	require.NoError(t, err)
	assert.Equal(t, "APP00001", first.ID)
	assert.Equal(t, models.StatusProcessing, first.Status)
	assert.NotEmpty(t, first.CreatedAt)

	second, err := repo.Create(ctx, createTestApplication("Vikram Singh"))
	require.NoError(t, err)
	assert.Equal(t, "APP00002", second.ID)
}

func TestMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	app, err := repo.Get(context.Background(), "APP99999")

	assert.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), "APPLICATION_NOT_FOUND")
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, createTestApplication("Sneha Reddy"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, func(app *models.Application) {
		app.Status = models.StatusRiskCalculated
		app.RiskScore = &models.RiskScore{Score: 87, Category: models.CategoryLowRisk}
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusRiskCalculated, updated.Status)
	assert.Equal(t, 87, updated.RiskScore.Score)
	assert.NotEmpty(t, updated.UpdatedAt)

	// Persisted, not just returned
	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRiskCalculated, fetched.Status)
}

func TestMemoryRepository_UpdateNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Update(context.Background(), "APP00042", func(app *models.Application) {
		app.Status = models.StatusCompleted
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APPLICATION_NOT_FOUND")
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, createTestApplication(fmt.Sprintf("Applicant %d", i)))
		require.NoError(t, err)
	}

	apps, err := repo.List(ctx, nil)

	require.NoError(t, err)
	require.Len(t, apps, 5)
	assert.Equal(t, "APP00005", apps[0].ID)
	assert.Equal(t, "APP00001", apps[4].ID)
}

func TestMemoryRepository_ListFiltered(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	approved, err := repo.Create(ctx, createTestApplication("Approved Applicant"))
	require.NoError(t, err)
	_, err = repo.Update(ctx, approved.ID, func(app *models.Application) {
		app.Status = models.StatusCompleted
		app.Decision = &models.Decision{Result: models.ResultApproved}
	})
	require.NoError(t, err)

	rejected, err := repo.Create(ctx, createTestApplication("Rejected Applicant"))
	require.NoError(t, err)
	_, err = repo.Update(ctx, rejected.ID, func(app *models.Application) {
		app.Status = models.StatusCompleted
		app.Decision = &models.Decision{Result: models.ResultRejected}
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, createTestApplication("In Progress"))
	require.NoError(t, err)

	t.Run("by result", func(t *testing.T) {
		apps, err := repo.List(ctx, &models.ApplicationFilter{Result: models.ResultApproved})
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, approved.ID, apps[0].ID)
	})

	t.Run("by status", func(t *testing.T) {
		apps, err := repo.List(ctx, &models.ApplicationFilter{Status: models.StatusProcessing})
		require.NoError(t, err)
		require.Len(t, apps, 1)
	})

	t.Run("with limit", func(t *testing.T) {
		apps, err := repo.List(ctx, &models.ApplicationFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})
}

func TestMemoryRepository_Stats(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &models.ApplicationStats{}, stats)
	})

	results := []struct {
		result string
		score  int
	}{
		{models.ResultApproved, 87},
		{models.ResultApproved, 75},
		{models.ResultRejected, 30},
		{models.ResultNeedDocuments, 55},
	}
	for _, r := range results {
		app, err := repo.Create(ctx, createTestApplication("Applicant"))
		require.NoError(t, err)
		result, score := r.result, r.score
		_, err = repo.Update(ctx, app.ID, func(a *models.Application) {
			a.RiskScore = &models.RiskScore{Score: score}
			a.Decision = &models.Decision{Result: result}
		})
		require.NoError(t, err)
	}

	t.Run("populated store", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &models.ApplicationStats{
			Total:        4,
			Approved:     2,
			Rejected:     1,
			Pending:      1,
			AvgRiskScore: 62, // (87+75+30+55)/4 = 61.75 rounded
		}, stats)
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, createTestApplication("Mutation Check"))
	require.NoError(t, err)

	created.Status = "tampered"

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, fetched.Status)
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app, err := repo.Create(ctx, createTestApplication("Concurrent"))
			assert.NoError(t, err)
			_, err = repo.Update(ctx, app.ID, func(a *models.Application) {
				a.Status = models.StatusCompleted
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Total)
}
