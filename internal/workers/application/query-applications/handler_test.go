// internal/workers/application/query-applications/handler_test.go
package queryapplications

import (
	"context"
	"testing"

	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/models"
	"loan-origination-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func seedRepository(t *testing.T) store.Repository {
	t.Helper()
	repo := store.NewMemoryRepository()
	ctx := context.Background()

	seeds := []struct {
		name   string
		status string
		result string
		score  int
	}{
		{"Rajesh Kumar", models.StatusCompleted, models.ResultApproved, 87},
		{"Priya Sharma", models.StatusCompleted, models.ResultRejected, 30},
		{"Amit Patel", models.StatusProcessing, "", 0},
	}
	for _, seed := range seeds {
		app, err := repo.Create(ctx, &models.Application{
			Applicant: &models.ApplicantInfo{Name: seed.name},
		})
		require.NoError(t, err)

		if seed.status != models.StatusProcessing {
			status, result, score := seed.status, seed.result, seed.score
			_, err = repo.Update(ctx, app.ID, func(a *models.Application) {
				a.Status = status
				a.RiskScore = &models.RiskScore{Score: score}
				a.Decision = &models.Decision{Result: result}
			})
			require.NoError(t, err)
		}
	}
	return repo
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

func TestHandler_Execute_Get(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:     QueryTypeGet,
		ApplicationID: "APP00001",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Application)
	assert.Equal(t, "Rajesh Kumar", output.Application.Applicant.Name)
	assert.Equal(t, 1, output.TotalHits)
}

func TestHandler_Execute_GetNotFound(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	tests := []struct {
		name          string
		applicationID string
	}{
		{"unknown id", "APP99999"},
		{"empty id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				QueryType:     QueryTypeGet,
				ApplicationID: tt.applicationID,
			})

			assert.Error(t, err)
			assert.Nil(t, output)
			assert.Contains(t, err.Error(), "APPLICATION_NOT_FOUND")
		})
	}
}

func TestHandler_Execute_List(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	t.Run("all newest first", func(t *testing.T) {
		output, err := handler.Execute(context.Background(), &Input{QueryType: QueryTypeList})
		require.NoError(t, err)
		require.Len(t, output.Applications, 3)
		assert.Equal(t, "APP00003", output.Applications[0].ID)
	})

	t.Run("empty query type defaults to list", func(t *testing.T) {
		output, err := handler.Execute(context.Background(), &Input{})
		require.NoError(t, err)
		assert.Len(t, output.Applications, 3)
	})

	t.Run("filtered by result", func(t *testing.T) {
		output, err := handler.Execute(context.Background(), &Input{
			QueryType: QueryTypeList,
			Result:    models.ResultApproved,
		})
		require.NoError(t, err)
		require.Len(t, output.Applications, 1)
		assert.Equal(t, "Rajesh Kumar", output.Applications[0].Applicant.Name)
	})

	t.Run("limited", func(t *testing.T) {
		output, err := handler.Execute(context.Background(), &Input{
			QueryType: QueryTypeList,
			Limit:     2,
		})
		require.NoError(t, err)
		assert.Len(t, output.Applications, 2)
		assert.Equal(t, 2, output.TotalHits)
	})
}

func TestHandler_Execute_Stats(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{QueryType: QueryTypeStats})

	require.NoError(t, err)
	require.NotNil(t, output.Stats)
	assert.Equal(t, 3, output.Stats.Total)
	assert.Equal(t, 1, output.Stats.Approved)
	assert.Equal(t, 1, output.Stats.Rejected)
	assert.Equal(t, 0, output.Stats.Pending)
	assert.Equal(t, 39, output.Stats.AvgRiskScore) // (87+30+0)/3 = 39
}

func TestHandler_Execute_UnknownQueryType(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{QueryType: "aggregate"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "SEARCH_QUERY_FAILED")
}

func TestHandler_Execute_SearchWithoutBackend(t *testing.T) {
	handler := NewHandler(LoadConfig(), seedRepository(t), nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:  QueryTypeSearch,
		SearchText: "approved",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "SEARCH_QUERY_FAILED")
}
