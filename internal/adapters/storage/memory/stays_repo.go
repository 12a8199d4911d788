package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-ops/internal/domain/boarding"
)

type stayRepo struct {
	mu   sync.RWMutex
	byID map[string]boarding.Stay
}

func NewStayRepo() boarding.Repository {
	return &stayRepo{
		byID: make(map[string]boarding.Stay),
	}
}

func (r *stayRepo) Create(ctx context.Context, st boarding.Stay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(st.ID) == "" {
		return errors.New("stay id required")
	}
	if _, exists := r.byID[st.ID]; exists {
		return errors.New("stay already exists")
	}
	r.byID[st.ID] = st
	return nil
}

func (r *stayRepo) GetByID(ctx context.Context, id string) (boarding.Stay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.byID[id]
	if !ok {
		return boarding.Stay{}, boarding.ErrNotFound
	}
	return st, nil
}

func (r *stayRepo) Update(ctx context.Context, st boarding.Stay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[st.ID]; !exists {
		return boarding.ErrNotFound
	}
	r.byID[st.ID] = st
	return nil
}

func (r *stayRepo) ListByChargeDate(ctx context.Context, date time.Time) ([]boarding.Stay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := date.Format(time.DateOnly)
	out := make([]boarding.Stay, 0)
	for _, st := range r.byID {
		if st.ChargeDate.Format(time.DateOnly) == want {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckOut.Before(out[j].CheckOut)
	})
	return out, nil
}

func (r *stayRepo) SetCalendarEventID(ctx context.Context, id, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.byID[id]
	if !ok {
		return boarding.ErrNotFound
	}
	st.CalendarEventID = externalID
	r.byID[id] = st
	return nil
}
