package cashier

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-ops/internal/domain/billing"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cashier", func(cr chi.Router) {
		cr.Get("/pending", listPendingHandler(svc))
		cr.Post("/confirm", confirmPaymentHandler(svc))
	})
}

type chargeItemResponse struct {
	Kind          string    `json:"kind"`
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	ClientName    string    `json:"client_name"`
	PetName       string    `json:"pet_name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ServiceStatus string    `json:"service_status"`
	Payment       string    `json:"payment"`
	IsPaid        bool      `json:"is_paid"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

type confirmPaymentRequest struct {
	Kind   string  `json:"kind"` // grooming|stay
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"` // cash|card|pix|transfer
}

// listPendingHandler devuelve la caja del día pedido (?date=YYYY-MM-DD,
// default hoy).
func listPendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetDate := time.Now()
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			t, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			targetDate = t
		}

		items, err := svc.ListPendingCharges(r.Context(), targetDate)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]chargeItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toChargeItemResponse(it))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func confirmPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		item, err := svc.ConfirmPayment(r.Context(), ConfirmInput{
			Kind:   Kind(req.Kind),
			ID:     req.ID,
			Amount: req.Amount,
			Method: billing.PaymentMethod(req.Method),
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, ErrConflict):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toChargeItemResponse(item))
	}
}

func toChargeItemResponse(it PendingChargeItem) chargeItemResponse {
	return chargeItemResponse{
		Kind:          string(it.Kind),
		ID:            it.ID,
		ClientID:      it.ClientID,
		ClientName:    it.ClientName,
		PetName:       it.PetName,
		Description:   it.Description,
		Price:         it.Price,
		ServiceStatus: it.ServiceStatus,
		Payment:       string(it.Payment),
		IsPaid:        it.IsPaid,
		ScheduledAt:   it.ScheduledAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
