//go:build !integration

package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
	"bloom-subscription-storefront/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- in-memory SessionStore ----

type memSessionStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

var _ repository.SessionStore = (*memSessionStore)(nil)

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{data: map[string]map[string]string{}}
}

func (s *memSessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kv, ok := s.data[sessionID]; ok {
		if v, ok := kv[key]; ok {
			return v, nil
		}
	}
	return "", domain.ErrNotFound
}

func (s *memSessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[sessionID] == nil {
		s.data[sessionID] = map[string]string{}
	}
	s.data[sessionID][key] = value
	return nil
}

func (s *memSessionStore) Remove(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kv, ok := s.data[sessionID]; ok {
		delete(kv, key)
	}
	return nil
}

func (s *memSessionStore) has(sessionID, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.data[sessionID]
	if !ok {
		return false
	}
	_, ok = kv[key]
	return ok
}

// ---- Mock PaymentTokenizer ----

type MockTokenizer struct {
	mu        sync.Mutex
	CardCalls int
	BankCalls int
	Token     string
	Err       error
	Wallet    bool
}

var _ adapter.PaymentTokenizer = (*MockTokenizer)(nil)

func (m *MockTokenizer) Name() string { return "mock" }

func (m *MockTokenizer) TokenizeCard(ctx context.Context, card model.CardDetails, billing model.BillingAddress) (string, error) {
	m.mu.Lock()
	m.CardCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.Token != "" {
		return m.Token, nil
	}
	return "tok-card-1", nil
}

func (m *MockTokenizer) TokenizeBankAccount(ctx context.Context, bank model.BankAccountDetails, billing model.BillingAddress) (string, error) {
	m.mu.Lock()
	m.BankCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.Token != "" {
		return m.Token, nil
	}
	return "tok-bank-1", nil
}

func (m *MockTokenizer) WalletAvailable(ctx context.Context) bool { return m.Wallet }

// ---- Mock SubscriptionBackend ----

type MockBackend struct {
	mu       sync.Mutex
	Calls    int
	Requests []adapter.SubscribeRequest
	Result   *model.SubmissionResult
	Err      error
}

var _ adapter.SubscriptionBackend = (*MockBackend)(nil)

func (m *MockBackend) CreateSubscription(ctx context.Context, req adapter.SubscribeRequest) (*model.SubmissionResult, error) {
	m.mu.Lock()
	m.Calls++
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		res := *m.Result
		return &res, nil
	}
	return &model.SubmissionResult{
		Success:        true,
		SubscriptionID: "sub-1",
		AccountCode:    "acct-1",
	}, nil
}

// validDelivery returns a delivery form that passes validation.
func validDelivery() model.DeliveryInfo {
	return model.DeliveryInfo{
		FirstName:        "Jane",
		LastName:         "Smith",
		Email:            "jane@example.com",
		Phone:            "5551234567",
		Address1:         "123 Bloom St",
		City:             "New York",
		State:            "NY",
		Zip:              "10001",
		Occasion:         "home",
		ColorPreferences: []string{"warm", "pastel"},
		StartDate:        model.StartDateASAP,
	}
}
