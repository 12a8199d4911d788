package boarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-ops/internal/domain/billing"
	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/clients"
	"pet-care-ops/internal/domain/pets"
	"pet-care-ops/internal/domain/plans"
	"pet-care-ops/internal/domain/pricing"
	"pet-care-ops/internal/platform/logger"
	"pet-care-ops/internal/ports/notify"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type Service struct {
	repo     Repository
	pets     pets.Repository
	clients  clients.Repository
	pricer   *pricing.Resolver
	ledger   *plans.Ledger
	notifier notify.CalendarNotifier // puede ser nil
	log      logger.Logger
	now      func() time.Time
}

func NewService(
	repo Repository,
	petsRepo pets.Repository,
	clientsRepo clients.Repository,
	pricer *pricing.Resolver,
	ledger *plans.Ledger,
	notifier notify.CalendarNotifier,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     petsRepo,
		clients:  clientsRepo,
		pricer:   pricer,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID     string
	CheckIn   time.Time
	CheckOut  time.Time
	IsDaycare bool
	// ChargeDate opcional; si es nil se usa la fecha de CheckOut.
	ChargeDate *time.Time
	Notes      string
}

// Create reserva una estadía: cotiza tarifa diaria × días y, si hay un
// plan de guardería aplicable, redime tantas unidades como días con la
// misma saga redeem/alta/compensación que grooming.
func (s *Service) Create(ctx context.Context, in CreateInput) (Stay, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Stay{}, ErrInvalidInput
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return Stay{}, ErrInvalidInput
	}
	if in.CheckOut.Before(in.CheckIn) {
		return Stay{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Stay{}, fmt.Errorf("%w: pet %s", ErrNotFound, petID)
	}
	client, err := s.clients.GetByID(ctx, pet.ClientID)
	if err != nil {
		return Stay{}, fmt.Errorf("%w: client %s", ErrNotFound, pet.ClientID)
	}

	quote, err := s.pricer.ResolveBoarding(ctx, pet.Size, in.CheckIn, in.CheckOut)
	if err != nil {
		return Stay{}, err
	}

	now := s.now()

	price := quote.Total
	payment := billing.PaymentPending
	planID := ""
	planUnits := 0

	plan, hasPlan, err := s.ledger.FindApplicablePlan(ctx, petID, catalog.PlanDaycare, now)
	if err != nil {
		return Stay{}, err
	}
	if hasPlan {
		if err := s.ledger.Redeem(ctx, plan.ID, quote.Days); err != nil {
			if errors.Is(err, plans.ErrInsufficientBalance) {
				return Stay{}, fmt.Errorf("%w: plan balance exhausted", ErrConflict)
			}
			return Stay{}, err
		}
		price = 0
		payment = billing.PaymentExempt
		planID = plan.ID
		planUnits = quote.Days
	}

	chargeDate := dateOf(in.CheckOut)
	if in.ChargeDate != nil {
		chargeDate = dateOf(*in.ChargeDate)
	}

	st := Stay{
		ID:           uuid.NewString(),
		ClientID:     client.ID,
		PetID:        pet.ID,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		DailyRate:    quote.DailyRate,
		TotalPrice:   price,
		IsDaycare:    in.IsDaycare,
		Status:       StatusReserved,
		Payment:      payment,
		IsPlanUsage:  hasPlan,
		ClientPlanID: planID,
		PlanUnits:    planUnits,
		ChargeDate:   chargeDate,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		if hasPlan {
			if rerr := s.ledger.Revert(ctx, planID, planUnits); rerr != nil {
				s.log.Error("compensating revert failed", map[string]any{
					"plan_id": planID, "err": rerr.Error(),
				})
			}
		}
		return Stay{}, err
	}

	s.notifyCreated(ctx, st, client, pet)

	return st, nil
}

func (s *Service) notifyCreated(ctx context.Context, st Stay, client clients.Client, pet pets.Pet) {
	if s.notifier == nil {
		return
	}

	title := "Boarding — " + pet.Name
	if st.IsDaycare {
		title = "Daycare — " + pet.Name
	}

	extID, err := s.notifier.BookingCreated(ctx, notify.Event{
		Title:      title,
		ClientName: client.Name,
		PetName:    pet.Name,
		StartsAt:   st.CheckIn,
		EndsAt:     st.CheckOut,
		Price:      st.TotalPrice,
		Notes:      st.Notes,
	})
	if err != nil {
		s.log.Warn("calendar notify failed", map[string]any{
			"stay_id": st.ID, "err": err.Error(),
		})
		return
	}
	if err := s.repo.SetCalendarEventID(ctx, st.ID, extID); err != nil {
		s.log.Warn("calendar event id not persisted", map[string]any{
			"stay_id": st.ID, "err": err.Error(),
		})
	}
}

// Advance mueve el estado al sucesor lineal (check-in, staying, check-out).
func (s *Service) Advance(ctx context.Context, id string, next StayStatus) (Stay, error) {
	st, err := s.getForUpdate(ctx, id)
	if err != nil {
		return Stay{}, err
	}
	if next == StatusCancelled {
		return Stay{}, ErrInvalidInput
	}
	if !st.Status.CanAdvanceTo(next) {
		return Stay{}, fmt.Errorf("%w: cannot move %s to %s", ErrConflict, st.Status, next)
	}

	st.Status = next
	st.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, st); err != nil {
		return Stay{}, err
	}
	return st, nil
}

// Cancel pasa la estadía a cancelled y devuelve las unidades redimidas.
func (s *Service) Cancel(ctx context.Context, id string) (Stay, error) {
	st, err := s.getForUpdate(ctx, id)
	if err != nil {
		return Stay{}, err
	}
	if st.Status.Terminal() {
		return Stay{}, fmt.Errorf("%w: stay is %s", ErrConflict, st.Status)
	}

	st.Status = StatusCancelled
	st.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, st); err != nil {
		return Stay{}, err
	}

	if st.IsPlanUsage && st.ClientPlanID != "" {
		if err := s.ledger.Revert(ctx, st.ClientPlanID, st.PlanUnits); err != nil {
			s.log.Error("plan revert on cancel failed", map[string]any{
				"stay_id": st.ID, "plan_id": st.ClientPlanID, "err": err.Error(),
			})
		}
	}

	if st.CalendarEventID != "" && s.notifier != nil {
		if err := s.notifier.BookingCancelled(ctx, st.CalendarEventID); err != nil {
			s.log.Warn("calendar cancel notify failed", map[string]any{
				"stay_id": st.ID, "err": err.Error(),
			})
		}
	}

	return st, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Stay, error) {
	return s.getForUpdate(ctx, id)
}

func (s *Service) getForUpdate(ctx context.Context, id string) (Stay, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Stay{}, ErrInvalidInput
	}
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Stay{}, fmt.Errorf("%w: stay %s", ErrNotFound, id)
	}
	return st, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
