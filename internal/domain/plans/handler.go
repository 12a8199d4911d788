package plans

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, ledger *Ledger) {
	r.Post("/plans", purchasePlanHandler(ledger))
	r.Get("/plans/{planID}", getPlanHandler(ledger))
	r.Get("/pets/{petID}/plans", listPetPlansHandler(ledger))
}

type purchasePlanRequest struct {
	ClientID         string `json:"client_id"`
	PetID            string `json:"pet_id"`
	PlanDefinitionID string `json:"plan_definition_id"`
}

type planResponse struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	PetID            string    `json:"pet_id"`
	PlanDefinitionID string    `json:"plan_definition_id"`
	Service          string    `json:"service"`
	TotalUnits       int       `json:"total_units"`
	UsedUnits        int       `json:"used_units"`
	RemainingUnits   int       `json:"remaining_units"`
	PurchasedAt      time.Time `json:"purchased_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	Active           bool      `json:"active"`
}

func purchasePlanHandler(ledger *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchasePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := ledger.Purchase(r.Context(), PurchaseInput{
			ClientID:         req.ClientID,
			PetID:            req.PetID,
			PlanDefinitionID: req.PlanDefinitionID,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "plan definition not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPlanResponse(p))
	}
}

func getPlanHandler(ledger *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := ledger.GetByID(r.Context(), chi.URLParam(r, "planID"))
		if err != nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPlanResponse(p))
	}
}

func listPetPlansHandler(ledger *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ledger.ListByPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toPlanResponse(p ClientPlan) planResponse {
	return planResponse{
		ID:               p.ID,
		ClientID:         p.ClientID,
		PetID:            p.PetID,
		PlanDefinitionID: p.PlanDefinitionID,
		Service:          string(p.Service),
		TotalUnits:       p.TotalUnits,
		UsedUnits:        p.UsedUnits,
		RemainingUnits:   p.Remaining(),
		PurchasedAt:      p.PurchasedAt,
		ExpiresAt:        p.ExpiresAt,
		Active:           p.Active,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
