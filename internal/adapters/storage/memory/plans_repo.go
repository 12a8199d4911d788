package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-ops/internal/domain/plans"
)

type planRepo struct {
	mu   sync.Mutex
	byID map[string]plans.ClientPlan
}

func NewPlanRepo() plans.Repository {
	return &planRepo{
		byID: make(map[string]plans.ClientPlan),
	}
}

func (r *planRepo) Create(ctx context.Context, p plans.ClientPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("plan already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (plans.ClientPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.ClientPlan{}, plans.ErrNotFound
	}
	return p, nil
}

func (r *planRepo) ListByPet(ctx context.Context, petID string) ([]plans.ClientPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]plans.ClientPlan, 0)
	for _, p := range r.byID {
		if p.PetID == petID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PurchasedAt.Before(out[j].PurchasedAt)
	})
	return out, nil
}

// AddUsage chequea y escribe bajo el mismo lock: el equivalente in-memory
// del UPDATE condicional de Postgres.
func (r *planRepo) AddUsage(ctx context.Context, id string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.ErrNotFound
	}
	if p.UsedUnits+units > p.TotalUnits {
		return plans.ErrInsufficientBalance
	}
	p.UsedUnits += units
	p.UpdatedAt = time.Now()
	r.byID[id] = p
	return nil
}

func (r *planRepo) ReduceUsage(ctx context.Context, id string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.ErrNotFound
	}
	p.UsedUnits -= units
	if p.UsedUnits < 0 {
		p.UsedUnits = 0
	}
	p.UpdatedAt = time.Now()
	r.byID[id] = p
	return nil
}
