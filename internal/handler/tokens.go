package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docmind/internal/domain"
	"docmind/internal/httputil"
	"docmind/internal/service/ledger"
	"docmind/internal/service/payment"
)

// TokenHandler serves the token balance and the purchase completion flow.
type TokenHandler struct {
	ledger  *ledger.Service
	payment *payment.Service
	logger  *slog.Logger
}

func NewTokenHandler(ledger *ledger.Service, payment *payment.Service, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		ledger:  ledger,
		payment: payment,
		logger:  logger.With("handler", "tokens"),
	}
}

// Balance handles GET /api/tokens.
func (h *TokenHandler) Balance(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), uid)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, balance)
}

type purchaseRequest struct {
	PlanID string `json:"planId"`
}

func (req purchaseRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PlanID, validation.Required),
	)
}

// Purchase handles POST /api/tokens/purchase, completing a mock purchase by
// crediting the plan's tokens.
func (h *TokenHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req purchaseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	balance, err := h.payment.CompletePurchase(r.Context(), uid, req.PlanID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, balance)
}
