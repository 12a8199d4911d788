package grooming

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-ops/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/grooming", func(gr chi.Router) {
		gr.Post("/", createAppointmentHandler(svc))
		gr.Get("/{appointmentID}", getAppointmentHandler(svc))
		gr.Post("/{appointmentID}/status", advanceStatusHandler(svc))
		gr.Post("/{appointmentID}/stage", setStageHandler(svc))
		gr.Post("/{appointmentID}/cancel", cancelAppointmentHandler(svc))
	})
}

type createAppointmentRequest struct {
	PetID      string   `json:"pet_id"`
	Service    string   `json:"service"` // bath|bath_grooming
	Style      string   `json:"style"`   // obligatorio si service=bath_grooming
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"` // opcional, default start+1h
	AddonIDs   []string `json:"addon_ids"`
	Logistics  string   `json:"logistics"`
	ChargeDate string   `json:"charge_date"` // YYYY-MM-DD opcional
	Notes      string   `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type stageRequest struct {
	Stage string `json:"stage"`
}

type appointmentResponse struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"client_id"`
	PetID           string     `json:"pet_id"`
	Service         string     `json:"service"`
	Style           string     `json:"style,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Price           float64    `json:"price"`
	AddonIDs        []string   `json:"addon_ids"`
	Logistics       string     `json:"logistics,omitempty"`
	Status          string     `json:"status"`
	Stage           string     `json:"stage"`
	Payment         string     `json:"payment"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	IsPlanUsage     bool       `json:"is_plan_usage"`
	ClientPlanID    string     `json:"client_plan_id,omitempty"`
	ChargeDate      string     `json:"charge_date"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			http.Error(w, "start_time must be RFC3339", http.StatusBadRequest)
			return
		}

		var end time.Time
		if strings.TrimSpace(req.EndTime) != "" {
			end, err = time.Parse(time.RFC3339, req.EndTime)
			if err != nil {
				http.Error(w, "end_time must be RFC3339", http.StatusBadRequest)
				return
			}
		}

		var chargeDate *time.Time
		if strings.TrimSpace(req.ChargeDate) != "" {
			t, err := time.Parse(time.DateOnly, req.ChargeDate)
			if err != nil {
				http.Error(w, "charge_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			chargeDate = &t
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:      req.PetID,
			Service:    catalog.ServiceType(req.Service),
			Style:      req.Style,
			StartTime:  start,
			EndTime:    end,
			AddonIDs:   req.AddonIDs,
			Logistics:  catalog.LogisticsChoice(req.Logistics),
			ChargeDate: chargeDate,
			Notes:      req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func advanceStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Advance(r.Context(), chi.URLParam(r, "appointmentID"), BookingStatus(req.Status))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func setStageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.SetStage(r.Context(), chi.URLParam(r, "appointmentID"), WorkflowStage(req.Stage))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func cancelAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Cancel(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	addons := a.AddonIDs
	if addons == nil {
		addons = []string{}
	}
	return appointmentResponse{
		ID:              a.ID,
		ClientID:        a.ClientID,
		PetID:           a.PetID,
		Service:         string(a.Service),
		Style:           a.Style,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Price:           a.Price,
		AddonIDs:        addons,
		Logistics:       string(a.Logistics),
		Status:          string(a.Status),
		Stage:           string(a.Stage),
		Payment:         string(a.Payment),
		PaymentMethod:   string(a.PaymentMethod),
		PaidAt:          a.PaidAt,
		IsPlanUsage:     a.IsPlanUsage,
		ClientPlanID:    a.ClientPlanID,
		ChargeDate:      a.ChargeDate.Format(time.DateOnly),
		CalendarEventID: a.CalendarEventID,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
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
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
