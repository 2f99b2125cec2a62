package service

import (
	"sort"
	"strings"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
)

// regionalDefaults routes currencies to the provider that settles them locally.
var regionalDefaults = map[string]domain.ProviderName{
	"NGN": domain.ProviderPaystack,
	"GHS": domain.ProviderPaystack,
	"KES": domain.ProviderPaystack,
	"ZAR": domain.ProviderPaystack,
	"IDR": domain.ProviderMidtrans,
}

const fallbackProvider = domain.ProviderStripe

// ProviderSelector resolves which registered adapter handles a charge.
// It is built once at startup and never changes afterwards.
type ProviderSelector struct {
	adapters   map[domain.ProviderName]ports.ProviderAdapter
	currencies map[domain.ProviderName]map[string]bool
}

func NewProviderSelector(adapters []ports.ProviderAdapter) *ProviderSelector {
	s := &ProviderSelector{
		adapters:   make(map[domain.ProviderName]ports.ProviderAdapter, len(adapters)),
		currencies: make(map[domain.ProviderName]map[string]bool, len(adapters)),
	}
	for _, a := range adapters {
		name := a.Name()
		s.adapters[name] = a
		set := make(map[string]bool)
		for _, c := range a.SupportedCurrencies() {
			set[strings.ToUpper(c)] = true
		}
		s.currencies[name] = set
	}
	return s
}

// Select picks a provider for currency. A non-nil hint is honored only if that
// provider is registered and supports the currency.
func (s *ProviderSelector) Select(currency string, hint *domain.ProviderName) (domain.ProviderName, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if hint != nil {
		if _, ok := s.adapters[*hint]; !ok || !s.supports(*hint, currency) {
			return "", domain.NewUnsupportedCurrencyForProviderError(*hint, currency)
		}
		return *hint, nil
	}

	if name, ok := regionalDefaults[currency]; ok && s.supports(name, currency) {
		return name, nil
	}
	if s.supports(fallbackProvider, currency) {
		return fallbackProvider, nil
	}

	// A regional provider may be the only one registered for its currency set.
	for _, name := range s.names() {
		if s.supports(name, currency) {
			return name, nil
		}
	}
	return "", domain.NewUnsupportedCurrencyError(currency)
}

// SupportedCurrencies returns every currency some registered provider accepts, sorted.
func (s *ProviderSelector) SupportedCurrencies() []string {
	seen := make(map[string]bool)
	for _, set := range s.currencies {
		for c := range set {
			seen[c] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Adapter returns the registered adapter for name.
func (s *ProviderSelector) Adapter(name domain.ProviderName) (ports.ProviderAdapter, bool) {
	a, ok := s.adapters[name]
	return a, ok
}

// Adapters returns the registered adapters ordered by name.
func (s *ProviderSelector) Adapters() []ports.ProviderAdapter {
	out := make([]ports.ProviderAdapter, 0, len(s.adapters))
	for _, name := range s.names() {
		out = append(out, s.adapters[name])
	}
	return out
}

func (s *ProviderSelector) supports(name domain.ProviderName, currency string) bool {
	return s.currencies[name][currency]
}

func (s *ProviderSelector) names() []domain.ProviderName {
	names := make([]domain.ProviderName, 0, len(s.adapters))
	for name := range s.adapters {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
