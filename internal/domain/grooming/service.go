package grooming

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

// Un turno de grooming consume siempre 1 unidad de plan.
const planUnitsPerAppointment = 1

type Service struct {
	repo     Repository
	pets     pets.Repository
	clients  clients.Repository
	catalog  catalog.Repository
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
	cat catalog.Repository,
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
		catalog:  cat,
		pricer:   pricer,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID     string
	Service   catalog.ServiceType
	Style     string
	StartTime time.Time
	EndTime   time.Time
	AddonIDs  []string
	Logistics catalog.LogisticsChoice
	// ChargeDate opcional; si es nil se usa la fecha de StartTime.
	ChargeDate *time.Time
	Notes      string
}

// Create agenda un turno: cotiza el servicio, redime una unidad de plan
// si hay uno aplicable y persiste la reserva. El redeem y el alta son
// una saga: si el alta falla se revierte la unidad consumida.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Appointment{}, ErrInvalidInput
	}
	if !catalog.ValidService(in.Service) {
		return Appointment{}, ErrInvalidInput
	}
	style := strings.TrimSpace(in.Style)
	if in.Service == catalog.ServiceBathGrooming && style == "" {
		return Appointment{}, fmt.Errorf("%w: grooming style required", ErrInvalidInput)
	}
	if in.StartTime.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	end := in.EndTime
	if end.IsZero() {
		end = in.StartTime.Add(time.Hour)
	}
	if !end.After(in.StartTime) {
		return Appointment{}, ErrInvalidInput
	}
	if in.Logistics != "" && !catalog.ValidLogistics(in.Logistics) {
		return Appointment{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: pet %s", ErrNotFound, petID)
	}
	client, err := s.clients.GetByID(ctx, pet.ClientID)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: client %s", ErrNotFound, pet.ClientID)
	}

	breakdown, err := s.pricer.ResolveGrooming(ctx, pricing.GroomingInput{
		Service:   in.Service,
		Breed:     pet.Breed,
		Size:      pet.Size,
		Coat:      pet.Coat,
		AddonIDs:  in.AddonIDs,
		Logistics: in.Logistics,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Appointment{}, fmt.Errorf("%w: addon", ErrNotFound)
		}
		return Appointment{}, err
	}

	now := s.now()

	price := breakdown.Total
	payment := billing.PaymentPending
	planID := ""
	planUnits := 0

	plan, hasPlan, err := s.ledger.FindApplicablePlan(ctx, petID, catalog.PlanGrooming, now)
	if err != nil {
		return Appointment{}, err
	}
	if hasPlan {
		if err := s.ledger.Redeem(ctx, plan.ID, planUnitsPerAppointment); err != nil {
			if errors.Is(err, plans.ErrInsufficientBalance) {
				return Appointment{}, fmt.Errorf("%w: plan balance exhausted", ErrConflict)
			}
			return Appointment{}, err
		}
		price = 0
		payment = billing.PaymentExempt
		planID = plan.ID
		planUnits = planUnitsPerAppointment
	}

	chargeDate := dateOf(in.StartTime)
	if in.ChargeDate != nil {
		chargeDate = dateOf(*in.ChargeDate)
	}

	a := Appointment{
		ID:           uuid.NewString(),
		ClientID:     client.ID,
		PetID:        pet.ID,
		Service:      in.Service,
		Style:        style,
		StartTime:    in.StartTime,
		EndTime:      end,
		Price:        price,
		AddonIDs:     in.AddonIDs,
		Logistics:    in.Logistics,
		Status:       StatusScheduled,
		Stage:        StageWaiting,
		Payment:      payment,
		IsPlanUsage:  hasPlan,
		ClientPlanID: planID,
		PlanUnits:    planUnits,
		ChargeDate:   chargeDate,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		// Compensación de la saga: devolver la unidad redimida.
		if hasPlan {
			if rerr := s.ledger.Revert(ctx, planID, planUnits); rerr != nil {
				s.log.Error("compensating revert failed", map[string]any{
					"plan_id": planID, "err": rerr.Error(),
				})
			}
		}
		return Appointment{}, err
	}

	s.notifyCreated(ctx, a, client, pet)

	return a, nil
}

// notifyCreated avisa al calendario externo. Best-effort: los errores
// se loguean y la reserva ya confirmada queda como está.
func (s *Service) notifyCreated(ctx context.Context, a Appointment, client clients.Client, pet pets.Pet) {
	if s.notifier == nil {
		return
	}

	labels := make([]string, 0, len(a.AddonIDs))
	for _, id := range a.AddonIDs {
		addon, err := s.catalog.GetAddon(ctx, id)
		if err != nil {
			continue
		}
		labels = append(labels, addon.Name)
	}

	extID, err := s.notifier.BookingCreated(ctx, notify.Event{
		Title:      serviceLabel(a.Service) + " — " + pet.Name,
		ClientName: client.Name,
		PetName:    pet.Name,
		StartsAt:   a.StartTime,
		EndsAt:     a.EndTime,
		Price:      a.Price,
		Addons:     labels,
		Notes:      a.Notes,
	})
	if err != nil {
		s.log.Warn("calendar notify failed", map[string]any{
			"appointment_id": a.ID, "err": err.Error(),
		})
		return
	}
	if err := s.repo.SetCalendarEventID(ctx, a.ID, extID); err != nil {
		s.log.Warn("calendar event id not persisted", map[string]any{
			"appointment_id": a.ID, "err": err.Error(),
		})
	}
}

func serviceLabel(t catalog.ServiceType) string {
	if t == catalog.ServiceBathGrooming {
		return "Bath & grooming"
	}
	return "Bath"
}

// Advance mueve el estado comercial al sucesor lineal. Cancelar no pasa
// por acá (ver Cancel).
func (s *Service) Advance(ctx context.Context, id string, next BookingStatus) (Appointment, error) {
	a, err := s.getForUpdate(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if next == StatusCancelled {
		return Appointment{}, ErrInvalidInput
	}
	if !a.Status.CanAdvanceTo(next) {
		return Appointment{}, fmt.Errorf("%w: cannot move %s to %s", ErrConflict, a.Status, next)
	}

	a.Status = next
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// SetStage mueve el avance físico. Las etapas se reordenan libremente
// (el operador corrige a mano) salvo que ya esté en done. Llegar a done
// deja el turno listo para retirar y cobrar.
func (s *Service) SetStage(ctx context.Context, id string, stage WorkflowStage) (Appointment, error) {
	if !ValidStage(stage) {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.getForUpdate(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status.Terminal() {
		return Appointment{}, fmt.Errorf("%w: booking is %s", ErrConflict, a.Status)
	}
	if a.Stage == StageDone {
		return Appointment{}, fmt.Errorf("%w: stage already done", ErrConflict)
	}

	a.Stage = stage
	if stage == StageDone {
		a.Status = StatusReady
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Cancel pasa el turno a cancelled, devuelve las unidades de plan que
// consumió y avisa al calendario externo si había evento.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.getForUpdate(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status.Terminal() {
		return Appointment{}, fmt.Errorf("%w: booking is %s", ErrConflict, a.Status)
	}

	a.Status = StatusCancelled
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if a.IsPlanUsage && a.ClientPlanID != "" {
		if err := s.ledger.Revert(ctx, a.ClientPlanID, a.PlanUnits); err != nil {
			s.log.Error("plan revert on cancel failed", map[string]any{
				"appointment_id": a.ID, "plan_id": a.ClientPlanID, "err": err.Error(),
			})
		}
	}

	if a.CalendarEventID != "" && s.notifier != nil {
		if err := s.notifier.BookingCancelled(ctx, a.CalendarEventID); err != nil {
			s.log.Warn("calendar cancel notify failed", map[string]any{
				"appointment_id": a.ID, "err": err.Error(),
			})
		}
	}

	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	return s.getForUpdate(ctx, id)
}

func (s *Service) getForUpdate(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
	}
	return a, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
