package plans

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-ops/internal/domain/catalog"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient plan balance")
)

// Ledger administra las instancias de plan prepago: compra, búsqueda de
// plan aplicable y el redeem/revert de unidades.
type Ledger struct {
	repo    Repository
	catalog catalog.Repository
	now     func() time.Time
}

func NewLedger(repo Repository, cat catalog.Repository) *Ledger {
	return &Ledger{
		repo:    repo,
		catalog: cat,
		now:     time.Now,
	}
}

// FindApplicablePlan devuelve el plan activo, vigente y con saldo para la
// mascota y servicio. Si califica más de uno gana el que expira primero,
// para que el saldo más perecedero se consuma antes.
func (l *Ledger) FindApplicablePlan(ctx context.Context, petID string, service catalog.PlanService, now time.Time) (ClientPlan, bool, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ClientPlan{}, false, ErrInvalidInput
	}

	items, err := l.repo.ListByPet(ctx, petID)
	if err != nil {
		return ClientPlan{}, false, err
	}

	matches := make([]ClientPlan, 0, 1)
	for _, p := range items {
		if p.Applicable(service, now) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return ClientPlan{}, false, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ExpiresAt.Before(matches[j].ExpiresAt)
	})
	return matches[0], true, nil
}

// Redeem consume unidades del plan. Falla con ErrInsufficientBalance si
// el saldo no alcanza; la escritura es condicional en el repo, así que
// dos reservas concurrentes nunca sobregiran.
func (l *Ledger) Redeem(ctx context.Context, planID string, units int) error {
	planID = strings.TrimSpace(planID)
	if planID == "" || units <= 0 {
		return ErrInvalidInput
	}
	return l.repo.AddUsage(ctx, planID, units)
}

// Revert devuelve unidades al plan (cancelación de reserva). Usa el
// conteo exacto que consumió la reserva original; el repo pisa en 0.
func (l *Ledger) Revert(ctx context.Context, planID string, units int) error {
	planID = strings.TrimSpace(planID)
	if planID == "" || units <= 0 {
		return ErrInvalidInput
	}
	return l.repo.ReduceUsage(ctx, planID, units)
}

type PurchaseInput struct {
	ClientID         string
	PetID            string
	PlanDefinitionID string
}

// Purchase crea la instancia de plan para el cliente/mascota a partir de
// la definición del catálogo, con vencimiento a validity_days.
func (l *Ledger) Purchase(ctx context.Context, in PurchaseInput) (ClientPlan, error) {
	clientID := strings.TrimSpace(in.ClientID)
	petID := strings.TrimSpace(in.PetID)
	defID := strings.TrimSpace(in.PlanDefinitionID)

	if clientID == "" || petID == "" || defID == "" {
		return ClientPlan{}, ErrInvalidInput
	}

	def, err := l.catalog.GetPlanDefinition(ctx, defID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ClientPlan{}, ErrNotFound
		}
		return ClientPlan{}, err
	}
	if def.TotalUnits <= 0 || def.ValidityDays <= 0 {
		return ClientPlan{}, ErrInvalidInput
	}

	now := l.now()
	p := ClientPlan{
		ID:               uuid.NewString(),
		ClientID:         clientID,
		PetID:            petID,
		PlanDefinitionID: def.ID,
		Service:          def.Service,
		TotalUnits:       def.TotalUnits,
		UsedUnits:        0,
		PurchasedAt:      now,
		ExpiresAt:        now.AddDate(0, 0, def.ValidityDays),
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := l.repo.Create(ctx, p); err != nil {
		return ClientPlan{}, err
	}
	return p, nil
}

func (l *Ledger) GetByID(ctx context.Context, id string) (ClientPlan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ClientPlan{}, ErrInvalidInput
	}
	return l.repo.GetByID(ctx, id)
}

func (l *Ledger) ListByPet(ctx context.Context, petID string) ([]ClientPlan, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return l.repo.ListByPet(ctx, petID)
}
