// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-origination-workers/internal/common/errors"
)

// testClient builds a Client with fast retry timings and no broker connection.
// ExecuteWithRetry only consults the config, so the gRPC client stays nil.
func testClient(maxRetries int) *Client {
	return &Client{
		config: &ClientConfig{
			GatewayAddress: "127.0.0.1:26500",
			RetryConfig: &RetryConfig{
				MaxRetries: maxRetries,
				BaseDelay:  time.Millisecond,
				MaxDelay:   5 * time.Millisecond,
			},
		},
	}
}

func TestExecuteWithRetry_SucceedsFirstAttempt(t *testing.T) {
	client := testClient(3)

	attempts := 0
	result, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return "ok", nil
	}, "deploy-process")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetry_RetriesTransientFailure(t *testing.T) {
	client := testClient(3)

	attempts := 0
	result, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("rpc error: connection refused")
		}
		return "ok", nil
	}, "complete-job")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	client := testClient(3)

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("INVALID_ARGUMENT: variables must be a JSON object")
	}, "complete-job")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", string(stdErr.Code))
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	client := testClient(2)

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("broker unavailable")
	}, "activate-jobs")

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial attempt + 2 retries

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", string(stdErr.Code))
}

func TestExecuteWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	client := testClient(3)
	client.config.RetryConfig.BaseDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("connection reset by peer")
	}, "publish-message")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"deadline exceeded", errors.New("rpc error: context deadline exceeded"), true},
		{"broker unavailable", errors.New("UNAVAILABLE: no healthy broker"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"invalid argument", errors.New("INVALID_ARGUMENT: bad variables"), false},
		{"not found", errors.New("NOT_FOUND: no such process"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableZeebeError(tt.err))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	client := testClient(3)

	t.Run("connection failures map to external service error", func(t *testing.T) {
		err := client.mapZeebeError(fmt.Errorf("connection refused"), "deploy-process", 2)

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Equal(t, "EXTERNAL_SERVICE_ERROR", string(stdErr.Code))
		assert.True(t, stdErr.Retryable)
		assert.Contains(t, fmt.Sprintf("%v", stdErr.Details), "after 2 attempts")
	})

	t.Run("timeouts map to timeout error", func(t *testing.T) {
		err := client.mapZeebeError(fmt.Errorf("deadline exceeded"), "complete-job", 0)

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Equal(t, "TIMEOUT_ERROR", string(stdErr.Code))
		assert.True(t, stdErr.Retryable)
	})
}
