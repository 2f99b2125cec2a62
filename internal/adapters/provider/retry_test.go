package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielPopoola/coursepay/internal/adapters/provider"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRetryAdapter(t *testing.T) (*mocks.MockProviderAdapter, *provider.RetryAdapter) {
	inner := mocks.NewMockProviderAdapter(t)
	return inner, provider.NewRetryAdapter(inner, config.RetryConfig{
		BaseDelay:  1,
		MaxRetries: 3,
	})
}

func TestRetryAdapter_FetchStatus_Success(t *testing.T) {
	inner, adapter := newRetryAdapter(t)
	expected := &domain.ProviderStatusResult{ProviderRef: "pi_1", Status: domain.ProviderStatusSucceeded}

	inner.EXPECT().
		FetchStatus(mock.Anything, "pi_1").
		Return(expected, nil).
		Once()

	result, err := adapter.FetchStatus(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestRetryAdapter_FetchStatus_RetriesOn5xx(t *testing.T) {
	inner, adapter := newRetryAdapter(t)
	expected := &domain.ProviderStatusResult{ProviderRef: "pi_1", Status: domain.ProviderStatusPending}

	// First two calls fail with 503
	inner.EXPECT().
		FetchStatus(mock.Anything, "pi_1").
		Return(nil, &provider.ProviderError{
			Provider:   domain.ProviderStripe,
			Code:       "unavailable",
			StatusCode: 503,
		}).
		Twice()

	inner.EXPECT().
		FetchStatus(mock.Anything, "pi_1").
		Return(expected, nil).
		Once()

	result, err := adapter.FetchStatus(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestRetryAdapter_FetchStatus_NoRetryOn4xx(t *testing.T) {
	inner, adapter := newRetryAdapter(t)

	inner.EXPECT().
		FetchStatus(mock.Anything, "pi_1").
		Return(nil, &provider.ProviderError{
			Provider:   domain.ProviderStripe,
			Code:       "resource_missing",
			StatusCode: 404,
		}).
		Once()

	_, err := adapter.FetchStatus(context.Background(), "pi_1")

	var providerErr *provider.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, 404, providerErr.StatusCode)
}

func TestRetryAdapter_FetchStatus_ExhaustsRetries(t *testing.T) {
	inner, adapter := newRetryAdapter(t)

	inner.EXPECT().
		FetchStatus(mock.Anything, "pi_1").
		Return(nil, provider.NetworkError(domain.ProviderStripe, errors.New("connection reset"))).
		Times(3)

	_, err := adapter.FetchStatus(context.Background(), "pi_1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
}

func TestRetryAdapter_FetchStatus_ContextCancelled(t *testing.T) {
	inner, adapter := newRetryAdapter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.FetchStatus(ctx, "pi_1")

	assert.ErrorIs(t, err, context.Canceled)
	inner.AssertNotCalled(t, "FetchStatus", mock.Anything, mock.Anything)
}

func TestRetryAdapter_CreateIntent_NotRetried(t *testing.T) {
	inner, adapter := newRetryAdapter(t)
	req := domain.IntentRequest{TransactionID: "tx-1", IdempotencyKey: "tx-1"}

	inner.EXPECT().
		CreateIntent(mock.Anything, req).
		Return(nil, &provider.ProviderError{Provider: domain.ProviderStripe, StatusCode: 500}).
		Once()

	_, err := adapter.CreateIntent(context.Background(), req)

	assert.Error(t, err)
}
