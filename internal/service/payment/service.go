// Package payment handles the token purchase flow. Checkout preferences are
// created by an external payment backend; purchases are completed by
// crediting tokens through the ledger.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/service/ledger"
)

// Service coordinates plan lookup, checkout creation, and purchase
// completion.
type Service struct {
	plans       []Plan
	ledger      *ledger.Service
	backendURL  string
	fallbackURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewService(plans []Plan, ledger *ledger.Service, backendURL, fallbackURL string, logger *slog.Logger) *Service {
	return &Service{
		plans:       plans,
		ledger:      ledger,
		backendURL:  backendURL,
		fallbackURL: fallbackURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With("service", "payment"),
	}
}

// Ledger exposes the token ledger for balance lookups tied to pricing.
func (s *Service) Ledger() *ledger.Service {
	return s.ledger
}

// Plans returns the catalog in display order.
func (s *Service) Plans() []Plan {
	out := make([]Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

// PlanByID looks up a plan.
func (s *Service) PlanByID(id string) (Plan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Preference is a created checkout, ready for the frontend to redirect to.
type Preference struct {
	CheckoutURL   string  `json:"checkoutUrl"`
	Price         float64 `json:"price"`
	FirstPurchase bool    `json:"firstPurchase"`
	Fallback      bool    `json:"fallback"`
}

type preferenceRequest struct {
	PlanID          string  `json:"planId"`
	PlanName        string  `json:"planName"`
	Tokens          int     `json:"tokens"`
	Price           float64 `json:"price"`
	IsFirstPurchase bool    `json:"isFirstPurchase"`
}

type preferenceResponse struct {
	InitPoint   string `json:"init_point"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreatePreference asks the payment backend for a checkout URL. Any failure
// falls back to the static checkout link so the purchase flow never dead
// ends on a backend outage.
func (s *Service) CreatePreference(ctx context.Context, userID, planID string) (*Preference, error) {
	plan, ok := s.PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrValidation, planID)
	}

	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	firstPurchase := !balance.FirstPurchaseUsed
	price := FinalPrice(plan.Price, firstPurchase)

	pref := &Preference{Price: price, FirstPurchase: firstPurchase}

	url, err := s.requestCheckout(ctx, preferenceRequest{
		PlanID:          plan.ID,
		PlanName:        plan.Name,
		Tokens:          plan.Tokens,
		Price:           price,
		IsFirstPurchase: firstPurchase,
	})
	if err != nil {
		s.logger.Warn("checkout creation failed, using fallback", "plan", plan.ID, "error", err)
		pref.CheckoutURL = s.fallbackURL
		pref.Fallback = true
		return pref, nil
	}

	pref.CheckoutURL = url
	return pref, nil
}

func (s *Service) requestCheckout(ctx context.Context, reqBody preferenceRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling preference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.backendURL+"/api/create-preference", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building preference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling payment backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment backend returned %d", resp.StatusCode)
	}

	var parsed preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding preference response: %w", err)
	}

	switch {
	case parsed.InitPoint != "":
		return parsed.InitPoint, nil
	case parsed.CheckoutURL != "":
		return parsed.CheckoutURL, nil
	default:
		return "", fmt.Errorf("preference response has no checkout url")
	}
}

// CompletePurchase credits the plan's tokens and burns the first purchase
// discount. In this mock flow completion is trusted; a real deployment would
// verify a payment webhook first.
func (s *Service) CompletePurchase(ctx context.Context, userID, planID string) (*models.TokenBalance, error) {
	plan, ok := s.PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrValidation, planID)
	}

	if _, err := s.ledger.Credit(ctx, userID, plan.Tokens); err != nil {
		return nil, err
	}
	if err := s.ledger.MarkFirstPurchaseUsed(ctx, userID); err != nil {
		return nil, err
	}

	// Re-read so the response reflects the first purchase flag.
	return s.ledger.Balance(ctx, userID)
}
