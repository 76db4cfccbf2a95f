package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docmind/internal/domain"
	"docmind/internal/httputil"
	"docmind/internal/service/payment"
)

// PaymentHandler serves the plan catalog and checkout creation.
type PaymentHandler struct {
	payment *payment.Service
	logger  *slog.Logger
}

func NewPaymentHandler(service *payment.Service, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payment: service, logger: logger.With("handler", "payment")}
}

// planView is a catalog entry with the price the requesting user would pay.
type planView struct {
	payment.Plan
	FinalPrice float64 `json:"finalPrice"`
}

// Plans handles GET /api/plans.
func (h *PaymentHandler) Plans(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	balance, err := h.payment.Ledger().Balance(r.Context(), uid)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	firstPurchase := !balance.FirstPurchaseUsed

	plans := h.payment.Plans()
	views := make([]planView, 0, len(plans))
	for _, p := range plans {
		views = append(views, planView{
			Plan:       p,
			FinalPrice: payment.FinalPrice(p.Price, firstPurchase),
		})
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"plans":         views,
		"firstPurchase": firstPurchase,
	})
}

type preferenceRequest struct {
	PlanID string `json:"planId"`
}

func (req preferenceRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PlanID, validation.Required),
	)
}

// CreatePreference handles POST /api/create-preference.
func (h *PaymentHandler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req preferenceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	pref, err := h.payment.CreatePreference(r.Context(), uid, req.PlanID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, pref)
}
