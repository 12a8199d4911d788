package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-ops/internal/domain/grooming"
)

type groomingRepo struct {
	mu   sync.RWMutex
	byID map[string]grooming.Appointment
}

func NewGroomingRepo() grooming.Repository {
	return &groomingRepo{
		byID: make(map[string]grooming.Appointment),
	}
}

func (r *groomingRepo) Create(ctx context.Context, a grooming.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *groomingRepo) GetByID(ctx context.Context, id string) (grooming.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return grooming.Appointment{}, grooming.ErrNotFound
	}
	return a, nil
}

func (r *groomingRepo) Update(ctx context.Context, a grooming.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return grooming.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *groomingRepo) ListByChargeDate(ctx context.Context, date time.Time) ([]grooming.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := date.Format(time.DateOnly)
	out := make([]grooming.Appointment, 0)
	for _, a := range r.byID {
		if a.ChargeDate.Format(time.DateOnly) == want {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *groomingRepo) SetCalendarEventID(ctx context.Context, id, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return grooming.ErrNotFound
	}
	a.CalendarEventID = externalID
	r.byID[id] = a
	return nil
}
