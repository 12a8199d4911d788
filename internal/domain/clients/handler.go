package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-care-ops/internal/domain/pets"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/clients", func(cr chi.Router) {
		cr.Post("/", createClientHandler(svc))
		cr.Get("/", listClientsHandler(svc))
		cr.Get("/{clientID}", getClientHandler(svc))

		// Mascotas del cliente (conveniencia para la recepción)
		cr.Get("/{clientID}/pets", listClientPetsHandler(svc, petsSvc))
	})
}

type createClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type clientResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Notes          string     `json:"notes"`
	LastPurchaseAt *time.Time `json:"last_purchase_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func createClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
			Notes: req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toClientResponse(c))
	}
}

func listClientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toClientResponse(c))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toClientResponse(c))
	}
}

func listClientPetsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")

		// Valida que el cliente exista para no devolver lista vacía por un ID inválido.
		if _, err := svc.GetByID(r.Context(), clientID); err != nil {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		items, err := petsSvc.ListByClient(r.Context(), clientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petSummary, 0, len(items))
		for _, p := range items {
			out = append(out, petSummary{
				ID:      p.ID,
				Name:    p.Name,
				Species: string(p.Species),
				Breed:   p.Breed,
				Size:    string(p.Size),
				Coat:    string(p.Coat),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

type petSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Size    string `json:"size"`
	Coat    string `json:"coat"`
}

func toClientResponse(c Client) clientResponse {
	return clientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		Notes:          c.Notes,
		LastPurchaseAt: c.LastPurchaseAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
