package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/google/uuid"
)

// MockTransactionRepository is an in-memory TransactionRepository. WithTx runs
// one unit of work at a time and rolls back every map when fn fails.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	transactions map[uuid.UUID]*domain.Transaction
	events       map[string]*domain.ProviderEvent
	enrollments  map[string]*domain.Enrollment

	CreateFn       func(ctx context.Context, tx *domain.Transaction) error
	FindByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	UpdateStatusFn func(ctx context.Context, tx *domain.Transaction, expected domain.TransactionStatus) (bool, error)
	FindStaleFn    func(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)
	WithTxFn       func(ctx context.Context, fn func(repo ports.TransactionRepository) error) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[uuid.UUID]*domain.Transaction),
		events:       make(map[string]*domain.ProviderEvent),
		enrollments:  make(map[string]*domain.Enrollment),
	}
}

// Seed stores tx as is, bypassing the active-attempt check.
func (m *MockTransactionRepository) Seed(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = clone(tx)
}

// Get returns the stored copy of a transaction, or nil.
func (m *MockTransactionRepository) Get(id uuid.UUID) *domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return clone(t)
	}
	return nil
}

func (m *MockTransactionRepository) EnrollmentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.enrollments)
}

func (m *MockTransactionRepository) Events() []*domain.ProviderEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.ProviderEvent, 0, len(m.events))
	for _, e := range m.events {
		c := *e
		out = append(out, &c)
	}
	return out
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.transactions {
		if existing.UserID == tx.UserID && existing.CourseID == tx.CourseID && existing.IsActive() {
			return domain.NewActiveTransactionExistsError(tx.UserID, tx.CourseID)
		}
	}
	m.transactions[tx.ID] = clone(tx)
	return nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return clone(t), nil
	}
	return nil, domain.NewTransactionNotFoundError(id.String())
}

func (m *MockTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return m.FindByID(ctx, id)
}

func (m *MockTransactionRepository) FindByProviderRefForUpdate(ctx context.Context, provider domain.ProviderName, ref string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.Provider == provider && t.ProviderRef != nil && *t.ProviderRef == ref {
			return clone(t), nil
		}
	}
	return nil, domain.NewTransactionNotFoundError(ref)
}

func (m *MockTransactionRepository) FindActive(ctx context.Context, userID, courseID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.UserID == userID && t.CourseID == courseID && t.IsActive() {
			return clone(t), nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Transaction
	for _, t := range m.transactions {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, clone(t))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if filter.Offset >= total {
		return []*domain.Transaction{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (m *MockTransactionRepository) FindStale(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	if m.FindStaleFn != nil {
		return m.FindStaleFn(ctx, olderThan, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().Add(-olderThan)
	var stale []*domain.Transaction
	for _, t := range m.transactions {
		if t.IsActive() && t.CreatedAt.Before(cutoff) {
			stale = append(stale, clone(t))
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

func (m *MockTransactionRepository) AttachIntent(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.transactions[tx.ID]
	if !ok {
		return domain.NewTransactionNotFoundError(tx.ID.String())
	}
	if stored.ProviderRef != nil {
		return domain.NewProviderRefImmutableError(tx.ID.String())
	}
	stored.ProviderRef = tx.ProviderRef
	stored.ClientSecret = tx.ClientSecret
	stored.AuthorizationURL = tx.AuthorizationURL
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx *domain.Transaction, expected domain.TransactionStatus) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, tx, expected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.transactions[tx.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	updated := clone(tx)
	if stored.ProviderTransactionID != nil {
		updated.ProviderTransactionID = stored.ProviderTransactionID
	}
	m.transactions[tx.ID] = updated
	return true, nil
}

func (m *MockTransactionRepository) RecordProviderEvent(ctx context.Context, evt *domain.ProviderEvent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(evt.Provider) + ":" + evt.EventID
	if _, ok := m.events[key]; ok {
		return false, nil
	}
	c := *evt
	m.events[key] = &c
	return true, nil
}

func (m *MockTransactionRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.enrollments[userID+":"+courseID]
	return ok, nil
}

func (m *MockTransactionRepository) CreateEnrollmentIfAbsent(ctx context.Context, userID, courseID string, transactionID uuid.UUID) (*domain.Enrollment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + ":" + courseID
	if e, ok := m.enrollments[key]; ok {
		return e, false, nil
	}
	e := &domain.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		TransactionID: transactionID,
		CreatedAt:     time.Now().UTC(),
	}
	m.enrollments[key] = e
	return e, true, nil
}

func (m *MockTransactionRepository) WithTx(ctx context.Context, fn func(repo ports.TransactionRepository) error) error {
	if m.WithTxFn != nil {
		return m.WithTxFn(ctx, fn)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snapshot := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type repoState struct {
	transactions map[uuid.UUID]*domain.Transaction
	events       map[string]*domain.ProviderEvent
	enrollments  map[string]*domain.Enrollment
}

func (m *MockTransactionRepository) snapshot() repoState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := repoState{
		transactions: make(map[uuid.UUID]*domain.Transaction, len(m.transactions)),
		events:       make(map[string]*domain.ProviderEvent, len(m.events)),
		enrollments:  make(map[string]*domain.Enrollment, len(m.enrollments)),
	}
	for k, v := range m.transactions {
		s.transactions[k] = clone(v)
	}
	for k, v := range m.events {
		s.events[k] = v
	}
	for k, v := range m.enrollments {
		s.enrollments[k] = v
	}
	return s
}

func (m *MockTransactionRepository) restore(s repoState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = s.transactions
	m.events = s.events
	m.enrollments = s.enrollments
}

func clone(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

// MockCourseCatalog
type MockCourseCatalog struct {
	Prices map[string]*domain.CoursePrice
}

func NewMockCourseCatalog(prices ...*domain.CoursePrice) *MockCourseCatalog {
	m := &MockCourseCatalog{Prices: make(map[string]*domain.CoursePrice)}
	for _, p := range prices {
		m.Prices[p.CourseID+":"+p.Currency] = p
	}
	return m
}

func (m *MockCourseCatalog) FindPrice(ctx context.Context, courseID, currency string) (*domain.CoursePrice, error) {
	if p, ok := m.Prices[courseID+":"+currency]; ok {
		return p, nil
	}
	return nil, domain.NewCourseNotPurchasableError(courseID, currency)
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []domain.PaymentEvent
	Err    error
}

func (m *MockPublisher) Publish(ctx context.Context, evt domain.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *MockPublisher) Events() []domain.PaymentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PaymentEvent(nil), m.events...)
}

// MockClaimer is an in-memory EventClaimer.
type MockClaimer struct {
	mu     sync.Mutex
	claims map[string]bool
	Err    error
}

func (m *MockClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.claims == nil {
		m.claims = make(map[string]bool)
	}
	if m.claims[key] {
		return false, nil
	}
	m.claims[key] = true
	return true, nil
}

func (m *MockClaimer) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, key)
	return nil
}

func (m *MockClaimer) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims[key]
}

// MockProviderAdapter is a scriptable provider. A webhook signature is valid
// when it equals Secret; webhook bodies are {"id","type","ref","status","provider_tx_id"}.
type MockProviderAdapter struct {
	mu         sync.Mutex
	calls      map[string]int
	ProviderID domain.ProviderName
	Currencies []string
	Secret     string
	Delay      time.Duration

	// UnsignedStatus marks parsed webhook statuses as not covered by the signature.
	UnsignedStatus bool

	CreateIntentFn func(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error)
	FetchStatusFn  func(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error)
	RefundFn       func(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error)
}

func (m *MockProviderAdapter) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockProviderAdapter) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockProviderAdapter) Name() domain.ProviderName { return m.ProviderID }

func (m *MockProviderAdapter) SupportedCurrencies() []string { return m.Currencies }

func (m *MockProviderAdapter) SignatureHeader() string { return "X-Test-Signature" }

func (m *MockProviderAdapter) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	m.inc("CreateIntent")
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.CreateIntentFn != nil {
		return m.CreateIntentFn(ctx, req)
	}
	return &domain.Intent{
		ProviderRef:  "ref-" + req.IdempotencyKey,
		ClientSecret: "secret-" + req.IdempotencyKey,
	}, nil
}

func (m *MockProviderAdapter) FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error) {
	m.inc("FetchStatus")
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.FetchStatusFn != nil {
		return m.FetchStatusFn(ctx, providerRef)
	}
	return &domain.ProviderStatusResult{
		ProviderRef: providerRef,
		Status:      domain.ProviderStatusPending,
	}, nil
}

func (m *MockProviderAdapter) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	m.inc("VerifyWebhookSignature")
	return m.Secret != "" && signature == m.Secret
}

type mockWebhookBody struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Ref          string `json:"ref"`
	Status       string `json:"status"`
	ProviderTxID string `json:"provider_tx_id"`
}

func (m *MockProviderAdapter) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	m.inc("ParseWebhookEvent")
	var body mockWebhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, err
	}
	return &domain.WebhookEvent{
		EventID:               body.ID,
		EventType:             body.Type,
		ProviderRef:           body.Ref,
		ProviderTransactionID: body.ProviderTxID,
		Status:                domain.ProviderStatus(body.Status),
		StatusUnsigned:        m.UnsignedStatus,
	}, nil
}

func (m *MockProviderAdapter) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	m.inc("Refund")
	if m.RefundFn != nil {
		return m.RefundFn(ctx, req)
	}
	return &domain.RefundResult{ProviderRefundID: "re-123", Status: "succeeded"}, nil
}
