package service

import (
	"sort"
	"testing"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerPtr(p domain.ProviderName) *domain.ProviderName { return &p }

func TestProviderSelector_Defaults(t *testing.T) {
	selector := newSelector(newStripe(), newPaystack(), newMidtrans())

	cases := []struct {
		currency string
		expected domain.ProviderName
	}{
		{"NGN", domain.ProviderPaystack},
		{"GHS", domain.ProviderPaystack},
		{"KES", domain.ProviderPaystack},
		{"ZAR", domain.ProviderPaystack},
		{"IDR", domain.ProviderMidtrans},
		{"USD", domain.ProviderStripe},
		{"eur", domain.ProviderStripe},
		{" gbp ", domain.ProviderStripe},
	}

	for _, tc := range cases {
		t.Run(tc.currency, func(t *testing.T) {
			got, err := selector.Select(tc.currency, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestProviderSelector_Hint(t *testing.T) {
	selector := newSelector(newStripe(), newPaystack())

	t.Run("honored when supported", func(t *testing.T) {
		got, err := selector.Select("USD", providerPtr(domain.ProviderPaystack))
		require.NoError(t, err)
		assert.Equal(t, domain.ProviderPaystack, got)
	})

	t.Run("rejected when currency unsupported", func(t *testing.T) {
		_, err := selector.Select("NGN", providerPtr(domain.ProviderStripe))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedCurrencyForProvider))
	})

	t.Run("rejected when provider not registered", func(t *testing.T) {
		_, err := selector.Select("IDR", providerPtr(domain.ProviderMidtrans))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedCurrencyForProvider))
	})
}

func TestProviderSelector_UnsupportedCurrency(t *testing.T) {
	selector := newSelector(newStripe(), newPaystack(), newMidtrans())

	_, err := selector.Select("XYZ", nil)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedCurrency))

	// IDR has no provider without midtrans.
	_, err = newSelector(newStripe(), newPaystack()).Select("IDR", nil)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedCurrency))
}

func TestProviderSelector_RegionalOnly(t *testing.T) {
	selector := newSelector(newPaystack())

	got, err := selector.Select("USD", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderPaystack, got)
}

func TestProviderSelector_TotalAndDeterministic(t *testing.T) {
	selector := newSelector(newStripe(), newPaystack(), newMidtrans())

	currencies := selector.SupportedCurrencies()
	require.NotEmpty(t, currencies)
	assert.True(t, sort.StringsAreSorted(currencies))

	for _, currency := range currencies {
		first, err := selector.Select(currency, nil)
		require.NoError(t, err, currency)
		for i := 0; i < 10; i++ {
			again, err := selector.Select(currency, nil)
			require.NoError(t, err)
			assert.Equal(t, first, again, currency)
		}

		adapter, ok := selector.Adapter(first)
		require.True(t, ok)
		assert.Contains(t, adapter.SupportedCurrencies(), currency)
	}
}
