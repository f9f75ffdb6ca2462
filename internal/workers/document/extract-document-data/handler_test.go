// internal/workers/document/extract-document-data/handler_test.go
package extractdocumentdata

import (
	"context"
	"testing"

	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/models"
	"loan-origination-workers/internal/providers"
	"loan-origination-workers/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createApplication(t *testing.T, repo store.Repository) *models.Application {
	t.Helper()
	app, err := repo.Create(context.Background(), &models.Application{
		Applicant: &models.ApplicantInfo{Name: "Sneha Reddy"},
		Documents: []string{"idDocument", "salarySlip", "bankStatement", "selfie"},
	})
	require.NoError(t, err)
	return app
}

func newHandler(t *testing.T, repo store.Repository, cache *redis.Client) *Handler {
	t.Helper()
	return NewHandler(
		LoadConfig(),
		repo,
		providers.NewMockExtractor(42),
		providers.NewMockTamperDetector(42),
		cache,
		newTestLogger(t),
	)
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	repo := store.NewMemoryRepository()
	app := createApplication(t, repo)
	handler := newHandler(t, repo, nil)

	output, err := handler.Execute(context.Background(), &Input{ApplicationID: app.ID})

	require.NoError(t, err)
	require.NotNil(t, output.ExtractedData)
	assert.Equal(t, app.ID, output.ApplicationID)
	assert.Equal(t, 4, output.DocumentsProcessed)
	assert.Greater(t, output.ExtractedData.MonthlySalary, 0)
	assert.NotEmpty(t, output.ExtractedData.Employer)
	assert.False(t, output.FromCache)

	// Store moved forward one stage
	stored, err := repo.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRCompleted, stored.Status)
	require.NotNil(t, stored.OCR)
	assert.Equal(t, output.ExtractedData, stored.OCR.ExtractedData)
}

func TestHandler_Execute_ApplicationNotFound(t *testing.T) {
	handler := newHandler(t, store.NewMemoryRepository(), nil)

	tests := []struct {
		name          string
		applicationID string
	}{
		{"unknown id", "APP99999"},
		{"empty id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{ApplicationID: tt.applicationID})

			assert.Error(t, err)
			assert.Nil(t, output)
			assert.Contains(t, err.Error(), "APPLICATION_NOT_FOUND")
		})
	}
}

func TestHandler_Execute_CachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	repo := store.NewMemoryRepository()
	app := createApplication(t, repo)
	handler := newHandler(t, repo, cache)
	ctx := context.Background()

	first, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.True(t, mr.Exists(cacheKeyPrefix+app.ID))

	second, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.ExtractedData, second.ExtractedData)
}

func TestHandler_Execute_CacheHitRepopulatesStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	ctx := context.Background()

	// Warm the cache against the first store.
	repo := store.NewMemoryRepository()
	app := createApplication(t, repo)
	handler := newHandler(t, repo, cache)
	_, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)

	// A restarted memory store re-issues the same counter IDs, so the
	// cache entry now refers to a record with no OCR data.
	restarted := store.NewMemoryRepository()
	reborn := createApplication(t, restarted)
	require.Equal(t, app.ID, reborn.ID)

	handler = newHandler(t, restarted, cache)
	output, err := handler.Execute(ctx, &Input{ApplicationID: reborn.ID})
	require.NoError(t, err)
	assert.True(t, output.FromCache)

	stored, err := restarted.Get(ctx, reborn.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OCR)
	assert.Equal(t, output.ExtractedData, stored.OCR.ExtractedData)
	assert.Equal(t, models.StatusOCRCompleted, stored.Status)
}

func TestHandler_Execute_CacheMissAfterExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	repo := store.NewMemoryRepository()
	app := createApplication(t, repo)
	handler := newHandler(t, repo, cache)
	ctx := context.Background()

	_, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)

	mr.FastForward(handler.config.CacheTTL * 2)

	output, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)
	assert.False(t, output.FromCache)
}

func TestHandler_Execute_WithoutCacheBackend(t *testing.T) {
	repo := store.NewMemoryRepository()
	app := createApplication(t, repo)
	handler := newHandler(t, repo, nil)
	ctx := context.Background()

	// Both runs go through the extractor; no cache, no error
	first, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)
	second, err := handler.Execute(ctx, &Input{ApplicationID: app.ID})
	require.NoError(t, err)

	assert.False(t, first.FromCache)
	assert.False(t, second.FromCache)
}
