package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"mentor-pricing-workers/internal/common/config"
	"mentor-pricing-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestClientConfigFrom(t *testing.T) {
	cfg := ClientConfigFrom(config.CamundaConfig{
		BrokerAddress:  "zeebe:26500",
		UsePlaintext:   true,
		RequestTimeout: 1500,
	})

	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.NotNil(t, cfg.RetryConfig)
}

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	err := testClient(3).ExecuteWithRetry(context.Background(), "complete-job", func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("rpc error: code = Unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := testClient(3).ExecuteWithRetry(context.Background(), "deploy", func(context.Context) error {
		calls++
		return stderrors.New("resource already exists")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBusinessRule, stdErr.Code)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := testClient(2).ExecuteWithRetry(context.Background(), "activate", func(context.Context) error {
		calls++
		return stderrors.New("context deadline exceeded")
	})

	assert.Equal(t, 3, calls)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecuteWithRetry_Cancelled(t *testing.T) {
	c := testClient(5)
	c.config.RetryConfig.BaseDelay = time.Second
	c.config.RetryConfig.MaxDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ExecuteWithRetry(ctx, "publish", func(context.Context) error {
		return stderrors.New("connection refused")
	})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected errors.ErrorCode
	}{
		{"connection refused", errors.ErrCodeExternalService},
		{"deadline exceeded", errors.ErrCodeTimeout},
		{"process not found", errors.ErrCodeResourceNotFound},
		{"permission denied", errors.ErrCodeAuthentication},
		{"something odd", errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			stdErr, ok := errors.AsStandardError(mapZeebeError(stderrors.New(tt.msg), "op", 0))
			require.True(t, ok)
			assert.Equal(t, tt.expected, stdErr.Code)
		})
	}
}
