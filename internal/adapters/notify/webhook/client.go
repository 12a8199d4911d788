package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-ops/internal/platform/httpclient"
	"pet-care-ops/internal/ports/notify"
)

// Notifier publica eventos de reserva en un calendario externo vía
// webhook JSON. El servicio remoto responde el id del evento creado.
type Notifier struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Notifier, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("webhook: base url required")
	}
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{http: c}, nil
}

// NewWithTransport permite inyectar un RoundTripper (tests).
func NewWithTransport(baseURL string, tr http.RoundTripper) (*Notifier, error) {
	n, err := New(baseURL, httpclient.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	n.http = httpclient.NewWithTransport(httpclient.DefaultTimeout, tr)
	n.http.BaseURL = strings.TrimRight(baseURL, "/")
	return n, nil
}

type eventRequest struct {
	Title      string    `json:"title"`
	ClientName string    `json:"client_name"`
	PetName    string    `json:"pet_name"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Price      float64   `json:"price"`
	Addons     []string  `json:"addons,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

type eventResponse struct {
	ID string `json:"id"`
}

func (n *Notifier) BookingCreated(ctx context.Context, ev notify.Event) (string, error) {
	req := eventRequest{
		Title:      ev.Title,
		ClientName: ev.ClientName,
		PetName:    ev.PetName,
		StartsAt:   ev.StartsAt,
		EndsAt:     ev.EndsAt,
		Price:      ev.Price,
		Addons:     ev.Addons,
		Notes:      ev.Notes,
	}

	var resp eventResponse
	if err := n.http.DoJSON(ctx, http.MethodPost, "/events", nil, req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.ID) == "" {
		return "", errors.New("webhook: empty event id in response")
	}
	return resp.ID, nil
}

func (n *Notifier) BookingCancelled(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return errors.New("webhook: external id required")
	}
	return n.http.DoJSON(ctx, http.MethodDelete, "/events/"+externalID, nil, nil, nil)
}
