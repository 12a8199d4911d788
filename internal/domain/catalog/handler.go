package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone el catálogo de solo lectura (addons y planes a la
// venta). Las reglas de precio se consultan indirectamente vía cotización.
func RegisterRoutes(r chi.Router, repo Repository) {
	r.Route("/catalog", func(cr chi.Router) {
		cr.Get("/addons", listAddonsHandler(repo))
		cr.Get("/plan-definitions", listPlanDefinitionsHandler(repo))
	})
}

type addonResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

type planAddonResponse struct {
	AddonID  string `json:"addon_id"`
	Quantity int    `json:"quantity"`
}

type planDefinitionResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Service        string              `json:"service"`
	TotalUnits     int                 `json:"total_units"`
	Price          float64             `json:"price"`
	ValidityDays   int                 `json:"validity_days"`
	IncludedAddons []planAddonResponse `json:"included_addons"`
}

func listAddonsHandler(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := repo.ListAddons(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]addonResponse, 0, len(items))
		for _, a := range items {
			if !a.Active {
				continue
			}
			out = append(out, addonResponse{
				ID:     a.ID,
				Name:   a.Name,
				Price:  a.Price,
				Active: a.Active,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listPlanDefinitionsHandler(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := repo.ListPlanDefinitions(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planDefinitionResponse, 0, len(items))
		for _, d := range items {
			addons := make([]planAddonResponse, 0, len(d.IncludedAddons))
			for _, pa := range d.IncludedAddons {
				addons = append(addons, planAddonResponse{AddonID: pa.AddonID, Quantity: pa.Quantity})
			}
			out = append(out, planDefinitionResponse{
				ID:             d.ID,
				Name:           d.Name,
				Service:        string(d.Service),
				TotalUnits:     d.TotalUnits,
				Price:          d.Price,
				ValidityDays:   d.ValidityDays,
				IncludedAddons: addons,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
