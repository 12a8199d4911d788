package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-care-ops/internal/router"
)

func TestHTTP_EndToEnd_GroomingAndCashier(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Alta de cliente y mascota (Poodle, pelo largo => regla pr-poodle)
	clientID := createJSON(t, ts.URL, "/clients", map[string]any{
		"name":  "Ana Souza",
		"phone": "555-0101",
	})
	petID := createJSON(t, ts.URL, "/pets", map[string]any{
		"client_id": clientID,
		"name":      "Luna",
		"species":   "dog",
		"breed":     "Poodle",
		"size":      "small",
		"coat":      "long",
	})

	// 2) Turno de mañana: regla de raza 90 + nails 10 + pickup+delivery 20
	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	st, body := doReq(t, ts.URL, "POST", "/grooming", map[string]any{
		"pet_id":     petID,
		"service":    "bath_grooming",
		"style":      "teddy bear",
		"start_time": start,
		"addon_ids":  []string{"ad-nails"},
		"logistics":  "company_company",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create appointment, got %d body=%s", st, string(body))
	}
	var appt struct {
		ID         string  `json:"id"`
		Price      float64 `json:"price"`
		Status     string  `json:"status"`
		Payment    string  `json:"payment"`
		ChargeDate string  `json:"charge_date"`
	}
	mustUnmarshal(t, body, &appt)
	if appt.Price != 120 {
		t.Fatalf("expected price 120, got %v", appt.Price)
	}
	if appt.Status != "scheduled" || appt.Payment != "pending" {
		t.Fatalf("unexpected initial state: %s/%s", appt.Status, appt.Payment)
	}

	// 3) Flujo de etapas: done deja el turno ready
	{
		st, body := doReq(t, ts.URL, "POST", "/grooming/"+appt.ID+"/stage", map[string]any{"stage": "bathing"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set stage, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/grooming/"+appt.ID+"/stage", map[string]any{"stage": "done"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set stage done, got %d body=%s", st, string(body))
		}
		var got struct {
			Status string `json:"status"`
			Stage  string `json:"stage"`
		}
		mustUnmarshal(t, body, &got)
		if got.Status != "ready" || got.Stage != "done" {
			t.Fatalf("expected ready/done after last stage, got %s/%s", got.Status, got.Stage)
		}
	}

	// 4) La caja del día del turno lo lista impago
	{
		st, body := doReq(t, ts.URL, "GET", "/cashier/pending?date="+appt.ChargeDate, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pending charges, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID     string `json:"id"`
			IsPaid bool   `json:"is_paid"`
		}
		mustUnmarshal(t, body, &items)
		if len(items) != 1 || items[0].ID != appt.ID || items[0].IsPaid {
			t.Fatalf("unexpected pending list: %s", string(body))
		}
	}

	// 5) Cobro hoy de un cargo de mañana => paid_early
	{
		st, body := doReq(t, ts.URL, "POST", "/cashier/confirm", map[string]any{
			"kind":   "grooming",
			"id":     appt.ID,
			"amount": 120,
			"method": "cash",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm payment, got %d body=%s", st, string(body))
		}
		var got struct {
			Payment       string `json:"payment"`
			ServiceStatus string `json:"service_status"`
		}
		mustUnmarshal(t, body, &got)
		if got.Payment != "paid_early" {
			t.Fatalf("expected paid_early, got %s", got.Payment)
		}
		if got.ServiceStatus != "completed" {
			t.Fatalf("expected completed after settle, got %s", got.ServiceStatus)
		}
	}

	// 6) Cobrar dos veces => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/cashier/confirm", map[string]any{
			"kind":   "grooming",
			"id":     appt.ID,
			"amount": 120,
			"method": "cash",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 double settle, got %d", st)
		}
	}

	// 7) El cobro refresca la última compra del cliente
	{
		st, body := doReq(t, ts.URL, "GET", "/clients/"+clientID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get client, got %d", st)
		}
		var got struct {
			LastPurchaseAt *time.Time `json:"last_purchase_at"`
		}
		mustUnmarshal(t, body, &got)
		if got.LastPurchaseAt == nil {
			t.Fatalf("expected last_purchase_at set, body=%s", string(body))
		}
	}
}

func TestHTTP_PlanFundedBooking_CancelRestoresUnits(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createJSON(t, ts.URL, "/clients", map[string]any{"name": "Bruno Lima"})
	petID := createJSON(t, ts.URL, "/pets", map[string]any{
		"client_id": clientID,
		"name":      "Tobi",
		"species":   "dog",
		"size":      "small",
	})

	// Compra del plan de 4 baños del catálogo demo
	planID := createJSON(t, ts.URL, "/plans", map[string]any{
		"client_id":          clientID,
		"pet_id":             petID,
		"plan_definition_id": "pd-bath-4",
	})

	// El turno sale fondeado por el plan: precio 0, exempt
	start := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	st, body := doReq(t, ts.URL, "POST", "/grooming", map[string]any{
		"pet_id":     petID,
		"service":    "bath",
		"start_time": start,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create appointment, got %d body=%s", st, string(body))
	}
	var appt struct {
		ID           string  `json:"id"`
		Price        float64 `json:"price"`
		Payment      string  `json:"payment"`
		IsPlanUsage  bool    `json:"is_plan_usage"`
		ClientPlanID string  `json:"client_plan_id"`
	}
	mustUnmarshal(t, body, &appt)
	if appt.Price != 0 || appt.Payment != "exempt" || !appt.IsPlanUsage || appt.ClientPlanID != planID {
		t.Fatalf("expected plan-funded booking, got %s", string(body))
	}

	assertRemaining(t, ts.URL, planID, 3)

	// Cancelar devuelve la unidad
	{
		st, body := doReq(t, ts.URL, "POST", "/grooming/"+appt.ID+"/cancel", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}
	}
	assertRemaining(t, ts.URL, planID, 4)

	// Cancelar de nuevo => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/grooming/"+appt.ID+"/cancel", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 cancel of cancelled, got %d", st)
		}
	}
}

func TestHTTP_Stay_LinearTransitions(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createJSON(t, ts.URL, "/clients", map[string]any{"name": "Carla Dias"})
	petID := createJSON(t, ts.URL, "/pets", map[string]any{
		"client_id": clientID,
		"name":      "Rex",
		"species":   "dog",
		"size":      "medium",
	})

	checkIn := time.Now().Add(24 * time.Hour).UTC()
	checkOut := checkIn.Add(72 * time.Hour)
	st, body := doReq(t, ts.URL, "POST", "/stays", map[string]any{
		"pet_id":    petID,
		"check_in":  checkIn.Format(time.RFC3339),
		"check_out": checkOut.Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create stay, got %d body=%s", st, string(body))
	}
	var stay struct {
		ID         string  `json:"id"`
		TotalPrice float64 `json:"total_price"`
		Status     string  `json:"status"`
	}
	mustUnmarshal(t, body, &stay)
	if stay.TotalPrice != 255 { // 3 días × 85 (porte mediano)
		t.Fatalf("expected total 255, got %v", stay.TotalPrice)
	}
	if stay.Status != "reserved" {
		t.Fatalf("expected reserved, got %s", stay.Status)
	}

	// Saltar estados no está permitido
	{
		st, _ := doReq(t, ts.URL, "POST", "/stays/"+stay.ID+"/status", map[string]any{"status": "checked_out"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 skipping states, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/stays/"+stay.ID+"/status", map[string]any{"status": "checked_in"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check-in, got %d body=%s", st, string(body))
		}
	}
}

func assertRemaining(t *testing.T, baseURL, planID string, want int) {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/plans/"+planID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get plan, got %d body=%s", st, string(body))
	}
	var got struct {
		RemainingUnits int `json:"remaining_units"`
	}
	mustUnmarshal(t, body, &got)
	if got.RemainingUnits != want {
		t.Fatalf("expected %d remaining units, got %d", want, got.RemainingUnits)
	}
}

func createJSON(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
