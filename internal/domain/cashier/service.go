package cashier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-care-ops/internal/domain/billing"
	"pet-care-ops/internal/domain/boarding"
	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/clients"
	"pet-care-ops/internal/domain/grooming"
	"pet-care-ops/internal/domain/pets"
	"pet-care-ops/internal/domain/pricing"
	"pet-care-ops/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Service es la caja del día: proyecta todos los cargos de una fecha y
// aplica los cobros. Solo lee turnos/estadías; escribe a través de sus
// repos al confirmar.
type Service struct {
	groomingRepo grooming.Repository
	stayRepo     boarding.Repository
	clientsRepo  clients.Repository
	petsRepo     pets.Repository
	log          logger.Logger
	now          func() time.Time
}

func NewService(
	groomingRepo grooming.Repository,
	stayRepo boarding.Repository,
	clientsRepo clients.Repository,
	petsRepo pets.Repository,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		groomingRepo: groomingRepo,
		stayRepo:     stayRepo,
		clientsRepo:  clientsRepo,
		petsRepo:     petsRepo,
		log:          log,
		now:          time.Now,
	}
}

// ListPendingCharges junta los turnos y estadías del día (cancelados
// afuera) en una lista única. Orden: impagos antes que pagos; entre los
// impagos primero los servicios ya terminados; después por horario.
func (s *Service) ListPendingCharges(ctx context.Context, targetDate time.Time) ([]PendingChargeItem, error) {
	appts, err := s.groomingRepo.ListByChargeDate(ctx, targetDate)
	if err != nil {
		return nil, err
	}
	stays, err := s.stayRepo.ListByChargeDate(ctx, targetDate)
	if err != nil {
		return nil, err
	}

	items := make([]PendingChargeItem, 0, len(appts)+len(stays))

	for _, a := range appts {
		if a.Status == grooming.StatusCancelled {
			continue
		}
		item := PendingChargeItem{
			Kind:          KindGrooming,
			ID:            a.ID,
			ClientID:      a.ClientID,
			Description:   groomingDescription(a),
			Price:         a.Price,
			ServiceStatus: string(a.Status),
			Payment:       a.Payment,
			IsPaid:        a.Payment.IsPaid(),
			ScheduledAt:   a.StartTime,
			serviceDone:   a.Status == grooming.StatusCompleted,
		}
		s.fillNames(ctx, &item, a.ClientID, a.PetID)
		items = append(items, item)
	}

	for _, st := range stays {
		if st.Status == boarding.StatusCancelled {
			continue
		}
		item := PendingChargeItem{
			Kind:          KindStay,
			ID:            st.ID,
			ClientID:      st.ClientID,
			Description:   stayDescription(st),
			Price:         st.TotalPrice,
			ServiceStatus: string(st.Status),
			Payment:       st.Payment,
			IsPaid:        st.Payment.IsPaid(),
			ScheduledAt:   st.CheckOut,
			serviceDone:   st.Status == boarding.StatusCheckedOut,
		}
		s.fillNames(ctx, &item, st.ClientID, st.PetID)
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsPaid != b.IsPaid {
			return !a.IsPaid
		}
		if a.serviceDone != b.serviceDone {
			return a.serviceDone
		}
		return a.ScheduledAt.Before(b.ScheduledAt)
	})

	return items, nil
}

func (s *Service) fillNames(ctx context.Context, item *PendingChargeItem, clientID, petID string) {
	if c, err := s.clientsRepo.GetByID(ctx, clientID); err == nil {
		item.ClientName = c.Name
	}
	if p, err := s.petsRepo.GetByID(ctx, petID); err == nil {
		item.PetName = p.Name
	}
}

func groomingDescription(a grooming.Appointment) string {
	label := "Bath"
	if a.Service == catalog.ServiceBathGrooming {
		label = "Bath & grooming"
		if a.Style != "" {
			label += " (" + a.Style + ")"
		}
	}
	return label
}

func stayDescription(st boarding.Stay) string {
	days := pricing.StayDays(st.CheckIn, st.CheckOut)
	if st.IsDaycare {
		return fmt.Sprintf("Daycare · %d day(s)", days)
	}
	return fmt.Sprintf("Boarding · %d day(s)", days)
}

type ConfirmInput struct {
	Kind   Kind
	ID     string
	Amount float64
	Method billing.PaymentMethod
}

// ConfirmPayment liquida un cargo: deja la reserva en su estado terminal
// de servicio cumplido, pisa el precio con el monto cobrado (puede
// diferir del cotizado) y marca paid_early si el charge_date todavía no
// llegó. También refresca la última compra del cliente.
func (s *Service) ConfirmPayment(ctx context.Context, in ConfirmInput) (PendingChargeItem, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" || !ValidKind(in.Kind) {
		return PendingChargeItem{}, ErrInvalidInput
	}
	if in.Amount < 0 {
		return PendingChargeItem{}, ErrInvalidInput
	}
	if !billing.ValidMethod(in.Method) {
		return PendingChargeItem{}, ErrInvalidInput
	}

	now := s.now()

	var (
		clientID string
		petID    string
		item     PendingChargeItem
	)

	switch in.Kind {
	case KindGrooming:
		a, err := s.groomingRepo.GetByID(ctx, id)
		if err != nil {
			return PendingChargeItem{}, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		if a.Status == grooming.StatusCancelled {
			return PendingChargeItem{}, fmt.Errorf("%w: booking is cancelled", ErrConflict)
		}
		if a.Payment.IsPaid() {
			return PendingChargeItem{}, fmt.Errorf("%w: already settled", ErrConflict)
		}

		a.Status = grooming.StatusCompleted
		a.Payment = settleStatus(a.ChargeDate, now)
		a.PaymentMethod = in.Method
		a.PaidAt = &now
		a.Price = in.Amount
		a.UpdatedAt = now

		if err := s.groomingRepo.Update(ctx, a); err != nil {
			return PendingChargeItem{}, err
		}

		clientID = a.ClientID
		petID = a.PetID
		item = PendingChargeItem{
			Kind:          KindGrooming,
			ID:            a.ID,
			ClientID:      a.ClientID,
			Description:   groomingDescription(a),
			Price:         a.Price,
			ServiceStatus: string(a.Status),
			Payment:       a.Payment,
			IsPaid:        true,
			ScheduledAt:   a.StartTime,
			serviceDone:   true,
		}

	case KindStay:
		st, err := s.stayRepo.GetByID(ctx, id)
		if err != nil {
			return PendingChargeItem{}, fmt.Errorf("%w: stay %s", ErrNotFound, id)
		}
		if st.Status == boarding.StatusCancelled {
			return PendingChargeItem{}, fmt.Errorf("%w: booking is cancelled", ErrConflict)
		}
		if st.Payment.IsPaid() {
			return PendingChargeItem{}, fmt.Errorf("%w: already settled", ErrConflict)
		}

		st.Status = boarding.StatusCheckedOut
		st.Payment = settleStatus(st.ChargeDate, now)
		st.PaymentMethod = in.Method
		st.PaidAt = &now
		st.TotalPrice = in.Amount
		st.UpdatedAt = now

		if err := s.stayRepo.Update(ctx, st); err != nil {
			return PendingChargeItem{}, err
		}

		clientID = st.ClientID
		petID = st.PetID
		item = PendingChargeItem{
			Kind:          KindStay,
			ID:            st.ID,
			ClientID:      st.ClientID,
			Description:   stayDescription(st),
			Price:         st.TotalPrice,
			ServiceStatus: string(st.Status),
			Payment:       st.Payment,
			IsPaid:        true,
			ScheduledAt:   st.CheckOut,
			serviceDone:   true,
		}
	}

	if err := s.clientsRepo.TouchLastPurchase(ctx, clientID, now); err != nil {
		s.log.Warn("last purchase not updated", map[string]any{
			"client_id": clientID, "err": err.Error(),
		})
	}

	s.fillNames(ctx, &item, clientID, petID)

	return item, nil
}

// settleStatus distingue cobro normal de cobro anticipado: anticipado es
// liquidar hoy un cargo cuyo día de caja todavía no llegó.
func settleStatus(chargeDate, now time.Time) billing.PaymentStatus {
	if dateOf(chargeDate).After(dateOf(now)) {
		return billing.PaymentPaidEarly
	}
	return billing.PaymentPaid
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
