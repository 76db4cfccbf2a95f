package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/service/ledger"
)

func TestLoadPlans(t *testing.T) {
	plans, err := LoadPlans()
	if err != nil {
		t.Fatalf("LoadPlans() error = %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(plans))
	}

	want := []struct {
		id     string
		tokens int
		price  float64
	}{
		{"basic", 10, 9.99},
		{"pro", 50, 39.99},
		{"enterprise", 200, 149.99},
	}
	for i, w := range want {
		if plans[i].ID != w.id || plans[i].Tokens != w.tokens || plans[i].Price != w.price {
			t.Errorf("plan[%d] = %+v, want %+v", i, plans[i], w)
		}
	}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name          string
		base          float64
		firstPurchase bool
		want          float64
	}{
		{"basic no discounts", 9.99, false, 9.99},
		{"basic first purchase", 9.99, true, 6.99},
		{"pro volume tier", 39.99, false, 35.99},
		{"pro first purchase stacks", 39.99, true, 25.19},
		{"enterprise both tiers", 149.99, false, 121.49},
		{"enterprise first purchase stacks", 149.99, true, 85.04},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalPrice(tt.base, tt.firstPurchase)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("FinalPrice(%v, %v) = %v, want %v", tt.base, tt.firstPurchase, got, tt.want)
			}
		})
	}
}

type memTokenRepo struct {
	mu       sync.Mutex
	balances map[string]models.TokenBalance
}

func (r *memTokenRepo) Get(ctx context.Context, userID string) (*models.TokenBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memTokenRepo) Save(ctx context.Context, balance *models.TokenBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balance.UserID] = *balance
	return nil
}

func newTestService(t *testing.T, backendURL string) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	led := ledger.NewService(&memTokenRepo{balances: make(map[string]models.TokenBalance)}, 5, logger)
	plans, err := LoadPlans()
	if err != nil {
		t.Fatalf("LoadPlans() error = %v", err)
	}
	return NewService(plans, led, backendURL, "https://checkout.example/fallback", logger)
}

func TestCreatePreferenceUsesBackendURL(t *testing.T) {
	var got preferenceRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/create-preference" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := jsonDecode(r, &got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"init_point": "https://checkout.example/pref-123"}`))
	}))
	defer backend.Close()

	svc := newTestService(t, backend.URL)
	pref, err := svc.CreatePreference(context.Background(), "alice", "pro")
	if err != nil {
		t.Fatalf("CreatePreference() error = %v", err)
	}

	if pref.CheckoutURL != "https://checkout.example/pref-123" {
		t.Errorf("CheckoutURL = %q", pref.CheckoutURL)
	}
	if pref.Fallback {
		t.Error("Fallback = true with healthy backend")
	}
	if !pref.FirstPurchase {
		t.Error("FirstPurchase = false for a new user")
	}

	// New user gets the volume tier and the first purchase discount.
	wantPrice := FinalPrice(39.99, true)
	if got.PlanID != "pro" || got.Tokens != 50 || math.Abs(got.Price-wantPrice) > 0.001 || !got.IsFirstPurchase {
		t.Errorf("backend payload = %+v", got)
	}
}

func TestCreatePreferenceFallsBackWhenBackendIsDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	backend.Close() // connection refused from here on

	svc := newTestService(t, backend.URL)
	pref, err := svc.CreatePreference(context.Background(), "basic-user", "basic")
	if err != nil {
		t.Fatalf("CreatePreference() error = %v", err)
	}
	if !pref.Fallback {
		t.Error("Fallback = false with dead backend")
	}
	if pref.CheckoutURL != "https://checkout.example/fallback" {
		t.Errorf("CheckoutURL = %q, want fallback", pref.CheckoutURL)
	}
}

func TestCreatePreferenceFallsBackOnBadResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer backend.Close()

	svc := newTestService(t, backend.URL)
	pref, err := svc.CreatePreference(context.Background(), "alice", "basic")
	if err != nil {
		t.Fatalf("CreatePreference() error = %v", err)
	}
	if !pref.Fallback || pref.CheckoutURL != "https://checkout.example/fallback" {
		t.Errorf("pref = %+v, want fallback", pref)
	}
}

func TestCreatePreferenceRejectsUnknownPlan(t *testing.T) {
	svc := newTestService(t, "http://localhost:0")
	_, err := svc.CreatePreference(context.Background(), "alice", "mega")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCompletePurchaseCreditsAndBurnsFirstPurchase(t *testing.T) {
	svc := newTestService(t, "http://localhost:0")
	ctx := context.Background()

	balance, err := svc.CompletePurchase(ctx, "alice", "pro")
	if err != nil {
		t.Fatalf("CompletePurchase() error = %v", err)
	}
	if balance.Balance != 55 {
		t.Errorf("balance = %d, want starting 5 + 50", balance.Balance)
	}
	if !balance.FirstPurchaseUsed {
		t.Error("FirstPurchaseUsed = false after a purchase")
	}

	// The second purchase no longer counts as first.
	pref, err := svc.CreatePreference(ctx, "alice", "basic")
	if err != nil {
		t.Fatalf("CreatePreference() error = %v", err)
	}
	if pref.FirstPurchase {
		t.Error("FirstPurchase = true after a completed purchase")
	}
}

func jsonDecode(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
