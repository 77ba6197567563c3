package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type currencyService interface {
	List(ctx context.Context) ([]*models.CurrencyRate, error)
	Upsert(ctx context.Context, c *models.CurrencyRate) error
	Convert(ctx context.Context, from, to string, amount float64) (*models.Conversion, error)
}

type CurrencyHandler struct {
	currency currencyService
}

func NewCurrencyHandler(currency currencyService) *CurrencyHandler {
	return &CurrencyHandler{currency: currency}
}

func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.currency.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rates": rates})
}

func (h *CurrencyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var c models.CurrencyRate
	if !decodeBody(w, r, &c) {
		return
	}
	if err := h.currency.Upsert(r.Context(), &c); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Convert handles GET ?from=ILS&to=CZK&amount=100. amount defaults to 1.
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount := 1.0
	if raw := q.Get("amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"amount": "Amount must be a number"}, r))
			return
		}
		amount = v
	}

	out, err := h.currency.Convert(r.Context(), q.Get("from"), q.Get("to"), amount)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
