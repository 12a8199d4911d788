package boarding

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/stays", func(sr chi.Router) {
		sr.Post("/", createStayHandler(svc))
		sr.Get("/{stayID}", getStayHandler(svc))
		sr.Post("/{stayID}/status", advanceStatusHandler(svc))
		sr.Post("/{stayID}/cancel", cancelStayHandler(svc))
	})
}

type createStayRequest struct {
	PetID      string `json:"pet_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	IsDaycare  bool   `json:"is_daycare"`
	ChargeDate string `json:"charge_date"` // YYYY-MM-DD opcional, default fecha de check_out
	Notes      string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type stayResponse struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"client_id"`
	PetID           string     `json:"pet_id"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	DailyRate       float64    `json:"daily_rate"`
	TotalPrice      float64    `json:"total_price"`
	IsDaycare       bool       `json:"is_daycare"`
	Status          string     `json:"status"`
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

func createStayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
		if err != nil {
			http.Error(w, "check_in must be RFC3339", http.StatusBadRequest)
			return
		}
		checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			http.Error(w, "check_out must be RFC3339", http.StatusBadRequest)
			return
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

		st, err := svc.Create(r.Context(), CreateInput{
			PetID:      req.PetID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			IsDaycare:  req.IsDaycare,
			ChargeDate: chargeDate,
			Notes:      req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toStayResponse(st))
	}
}

func getStayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.GetByID(r.Context(), chi.URLParam(r, "stayID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStayResponse(st))
	}
}

func advanceStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.Advance(r.Context(), chi.URLParam(r, "stayID"), StayStatus(req.Status))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStayResponse(st))
	}
}

func cancelStayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Cancel(r.Context(), chi.URLParam(r, "stayID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStayResponse(st))
	}
}

func toStayResponse(st Stay) stayResponse {
	return stayResponse{
		ID:              st.ID,
		ClientID:        st.ClientID,
		PetID:           st.PetID,
		CheckIn:         st.CheckIn,
		CheckOut:        st.CheckOut,
		DailyRate:       st.DailyRate,
		TotalPrice:      st.TotalPrice,
		IsDaycare:       st.IsDaycare,
		Status:          string(st.Status),
		Payment:         string(st.Payment),
		PaymentMethod:   string(st.PaymentMethod),
		PaidAt:          st.PaidAt,
		IsPlanUsage:     st.IsPlanUsage,
		ClientPlanID:    st.ClientPlanID,
		ChargeDate:      st.ChargeDate.Format(time.DateOnly),
		CalendarEventID: st.CalendarEventID,
		Notes:           st.Notes,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
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
