// internal/workers/application/validate-application-data/handler_test.go
package validateapplicationdata

import (
	"context"
	"testing"

	"loan-origination-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createValidApplicationData() map[string]interface{} {
	return map[string]interface{}{
		"name":       "Priya Sharma",
		"email":      "priya.sharma@example.com",
		"phone":      "+919876543210",
		"loanAmount": 500000,
	}
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

func TestHandler_Execute_ValidData(t *testing.T) {
	handler := NewHandler(LoadConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID:   "APP00001",
		ApplicationData: createValidApplicationData(),
	})

	require.NoError(t, err)
	assert.True(t, output.IsValid)
	assert.Empty(t, output.ValidationErrors)
	assert.Equal(t, "APP00001", output.ApplicationID)
}

func TestHandler_Execute_InvalidData(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(data map[string]interface{})
		expectedField string
	}{
		{
			name:          "missing name",
			mutate:        func(data map[string]interface{}) { delete(data, "name") },
			expectedField: "(root)",
		},
		{
			name:          "name too short",
			mutate:        func(data map[string]interface{}) { data["name"] = "P" },
			expectedField: "name",
		},
		{
			name:          "name with digits",
			mutate:        func(data map[string]interface{}) { data["name"] = "Priya123" },
			expectedField: "name",
		},
		{
			name:          "malformed email",
			mutate:        func(data map[string]interface{}) { data["email"] = "not-an-email" },
			expectedField: "email",
		},
		{
			name:          "phone too short",
			mutate:        func(data map[string]interface{}) { data["phone"] = "123" },
			expectedField: "phone",
		},
		{
			name:          "negative loan amount",
			mutate:        func(data map[string]interface{}) { data["loanAmount"] = -5000 },
			expectedField: "loanAmount",
		},
		{
			name:          "loan amount over cap",
			mutate:        func(data map[string]interface{}) { data["loanAmount"] = 50000000 },
			expectedField: "loanAmount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), newTestLogger(t))

			data := createValidApplicationData()
			tt.mutate(data)

			output, err := handler.Execute(context.Background(), &Input{
				ApplicationID:   "APP00002",
				ApplicationData: data,
			})

			require.NoError(t, err)
			assert.False(t, output.IsValid)
			require.NotEmpty(t, output.ValidationErrors)

			fields := []string{}
			for _, ve := range output.ValidationErrors {
				fields = append(fields, ve.Field)
				assert.NotEmpty(t, ve.Code)
				assert.NotEmpty(t, ve.Message)
			}
			assert.Contains(t, fields, tt.expectedField)
		})
	}
}

func TestHandler_Execute_MultipleErrorsReported(t *testing.T) {
	handler := NewHandler(LoadConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "APP00003",
		ApplicationData: map[string]interface{}{
			"name":  "X",
			"email": "bad",
			"phone": "12",
		},
	})

	require.NoError(t, err)
	assert.False(t, output.IsValid)
	assert.GreaterOrEqual(t, len(output.ValidationErrors), 3)
}

func TestHandler_Execute_NilApplicationData(t *testing.T) {
	handler := NewHandler(LoadConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ApplicationID: "APP00004"})

	require.NoError(t, err)
	assert.False(t, output.IsValid)
	require.Len(t, output.ValidationErrors, 1)
	assert.Equal(t, "applicationData", output.ValidationErrors[0].Field)
	assert.Equal(t, "MISSING_REQUIRED", output.ValidationErrors[0].Code)
}

func TestHandler_Execute_OptionalLoanAmount(t *testing.T) {
	handler := NewHandler(LoadConfig(), newTestLogger(t))

	data := createValidApplicationData()
	delete(data, "loanAmount")

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID:   "APP00005",
		ApplicationData: data,
	})

	require.NoError(t, err)
	assert.True(t, output.IsValid)
}
