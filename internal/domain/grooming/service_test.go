package grooming_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pet-care-ops/internal/adapters/storage/memory"
	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/clients"
	"pet-care-ops/internal/domain/grooming"
	"pet-care-ops/internal/domain/pets"
	"pet-care-ops/internal/domain/plans"
	"pet-care-ops/internal/domain/pricing"
	"pet-care-ops/internal/ports/notify"
)

// -------------------------
// Fixture
// -------------------------

type env struct {
	svc      *grooming.Service
	repo     grooming.Repository
	plans    plans.Repository
	ledger   *plans.Ledger
	notifier *fakeNotifier

	clientID string
	petID    string
}

type fakeNotifier struct {
	created    []notify.Event
	cancelled  []string
	failCreate bool
}

func (n *fakeNotifier) BookingCreated(ctx context.Context, ev notify.Event) (string, error) {
	if n.failCreate {
		return "", errors.New("calendar down")
	}
	n.created = append(n.created, ev)
	return fmt.Sprintf("evt-%d", len(n.created)), nil
}

func (n *fakeNotifier) BookingCancelled(ctx context.Context, externalID string) error {
	n.cancelled = append(n.cancelled, externalID)
	return nil
}

func testCatalog() memory.CatalogData {
	return memory.CatalogData{
		PriceRules: []catalog.PriceRule{
			{ID: "pr-poodle", Breed: "Poodle", Coat: pets.CoatLong, Service: catalog.ServiceBathGrooming, Price: 90, Active: true},
			{ID: "pr-small-bath", Size: pets.SizeSmall, Service: catalog.ServiceBath, Price: 45, Active: true},
		},
		Addons: []catalog.Addon{
			{ID: "ad-nails", Name: "Nail trim", Price: 10, Active: true},
			{ID: "ad-both", Name: "Pickup + delivery", Price: 20, Active: true},
		},
		Logistics: map[catalog.LogisticsChoice]string{
			catalog.LogisticsShopBoth: "ad-both",
		},
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()

	clientRepo := memory.NewClientRepo()
	petRepo := memory.NewPetRepo()
	catalogRepo := memory.NewCatalogRepo(testCatalog())
	planRepo := memory.NewPlanRepo()
	repo := memory.NewGroomingRepo()

	client := clients.Client{ID: "cl-1", Name: "Ana"}
	if err := clientRepo.Create(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	pet := pets.Pet{
		ID: "pet-1", ClientID: "cl-1", Name: "Luna",
		Breed: "Poodle", Size: pets.SizeSmall, Coat: pets.CoatLong,
	}
	if err := petRepo.Create(ctx, pet); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	notifier := &fakeNotifier{}
	ledger := plans.NewLedger(planRepo, catalogRepo)
	svc := grooming.NewService(repo, petRepo, clientRepo, catalogRepo,
		pricing.NewResolver(catalogRepo), ledger, notifier, nil)

	return &env{
		svc:      svc,
		repo:     repo,
		plans:    planRepo,
		ledger:   ledger,
		notifier: notifier,
		clientID: client.ID,
		petID:    pet.ID,
	}
}

func (e *env) seedPlan(t *testing.T, totalUnits, usedUnits int) string {
	t.Helper()

	p := plans.ClientPlan{
		ID:          "plan-1",
		ClientID:    e.clientID,
		PetID:       e.petID,
		Service:     catalog.PlanGrooming,
		TotalUnits:  totalUnits,
		UsedUnits:   usedUnits,
		PurchasedAt: time.Now(),
		ExpiresAt:   time.Now().Add(30 * 24 * time.Hour),
		Active:      true,
	}
	if err := e.plans.Create(context.Background(), p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p.ID
}

func start() time.Time {
	return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_PricesFromCatalog(t *testing.T) {
	e := newEnv(t)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBathGrooming,
		Style:     "teddy bear",
		StartTime: start(),
		AddonIDs:  []string{"ad-nails"},
		Logistics: catalog.LogisticsShopBoth,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.Price != 120 { // 90 regla de raza + 10 addon + 20 logística
		t.Fatalf("expected price 120, got %v", a.Price)
	}
	if a.Status != grooming.StatusScheduled || a.Stage != grooming.StageWaiting {
		t.Fatalf("unexpected initial state %s/%s", a.Status, a.Stage)
	}
	if !a.EndTime.Equal(start().Add(time.Hour)) {
		t.Fatalf("expected default end start+1h, got %v", a.EndTime)
	}
	if !a.ChargeDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected charge date from start time, got %v", a.ChargeDate)
	}
}

func TestService_Create_RequiresStyleForGrooming(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBathGrooming,
		StartTime: start(),
	})
	if !errors.Is(err, grooming.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without style, got %v", err)
	}

	// Para un baño simple el estilo no aplica.
	if _, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	}); err != nil {
		t.Fatalf("bath without style should work: %v", err)
	}
}

func TestService_Create_PlanFunded(t *testing.T) {
	e := newEnv(t)
	planID := e.seedPlan(t, 4, 0)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.Price != 0 {
		t.Fatalf("expected price 0 for plan-funded booking, got %v", a.Price)
	}
	if a.Payment != "exempt" {
		t.Fatalf("expected exempt payment, got %s", a.Payment)
	}
	if !a.IsPlanUsage || a.ClientPlanID != planID || a.PlanUnits != 1 {
		t.Fatalf("expected plan usage recorded, got %+v", a)
	}

	p, err := e.ledger.GetByID(context.Background(), planID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if p.UsedUnits != 1 {
		t.Fatalf("expected 1 used unit, got %d", p.UsedUnits)
	}
}

func TestService_Create_ExhaustedPlanChargesNormally(t *testing.T) {
	e := newEnv(t)
	e.seedPlan(t, 4, 4)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.IsPlanUsage || a.Price != 45 {
		t.Fatalf("expected regular charge when plan is exhausted, got %+v", a)
	}
}

func TestService_Cancel_RevertsPlanUnits(t *testing.T) {
	e := newEnv(t)
	planID := e.seedPlan(t, 4, 0)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := e.svc.Cancel(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != grooming.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	p, _ := e.ledger.GetByID(context.Background(), planID)
	if p.UsedUnits != 0 {
		t.Fatalf("expected unit back after cancel, got %d used", p.UsedUnits)
	}

	if _, err := e.svc.Cancel(context.Background(), a.ID); !errors.Is(err, grooming.ErrConflict) {
		t.Fatalf("expected ErrConflict cancelling twice, got %v", err)
	}
}

func TestService_Advance_LinearOnly(t *testing.T) {
	e := newEnv(t)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Saltar al final no está permitido.
	if _, err := e.svc.Advance(context.Background(), a.ID, grooming.StatusCompleted); !errors.Is(err, grooming.ErrConflict) {
		t.Fatalf("expected ErrConflict skipping states, got %v", err)
	}

	// Cancelar tiene su propia operación.
	if _, err := e.svc.Advance(context.Background(), a.ID, grooming.StatusCancelled); !errors.Is(err, grooming.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput advancing to cancelled, got %v", err)
	}

	for _, next := range []grooming.BookingStatus{
		grooming.StatusInService, grooming.StatusReady, grooming.StatusCompleted,
	} {
		got, err := e.svc.Advance(context.Background(), a.ID, next)
		if err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("expected %s, got %s", next, got.Status)
		}
	}

	if _, err := e.svc.Cancel(context.Background(), a.ID); !errors.Is(err, grooming.ErrConflict) {
		t.Fatalf("expected ErrConflict cancelling completed booking, got %v", err)
	}
}

func TestService_SetStage_DoneMarksReady(t *testing.T) {
	e := newEnv(t)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Las etapas se corrigen libremente mientras no se llegue a done.
	if _, err := e.svc.SetStage(context.Background(), a.ID, grooming.StageDrying); err != nil {
		t.Fatalf("set stage drying: %v", err)
	}
	if _, err := e.svc.SetStage(context.Background(), a.ID, grooming.StageBathing); err != nil {
		t.Fatalf("set stage back to bathing: %v", err)
	}

	got, err := e.svc.SetStage(context.Background(), a.ID, grooming.StageDone)
	if err != nil {
		t.Fatalf("set stage done: %v", err)
	}
	if got.Status != grooming.StatusReady {
		t.Fatalf("expected ready after done, got %s", got.Status)
	}

	if _, err := e.svc.SetStage(context.Background(), a.ID, grooming.StageWaiting); !errors.Is(err, grooming.ErrConflict) {
		t.Fatalf("expected ErrConflict changing stage after done, got %v", err)
	}
}

func TestService_Create_NotifiesCalendar(t *testing.T) {
	e := newEnv(t)

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
		AddonIDs:  []string{"ad-nails"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(e.notifier.created) != 1 {
		t.Fatalf("expected 1 calendar event, got %d", len(e.notifier.created))
	}
	ev := e.notifier.created[0]
	if ev.ClientName != "Ana" || ev.PetName != "Luna" {
		t.Fatalf("unexpected event names: %+v", ev)
	}
	if len(ev.Addons) != 1 || ev.Addons[0] != "Nail trim" {
		t.Fatalf("expected addon labels in event, got %v", ev.Addons)
	}

	stored, err := e.repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.CalendarEventID != "evt-1" {
		t.Fatalf("expected calendar event id persisted, got %q", stored.CalendarEventID)
	}

	// Cancelar avisa con el id externo.
	if _, err := e.svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(e.notifier.cancelled) != 1 || e.notifier.cancelled[0] != "evt-1" {
		t.Fatalf("expected cancel notification, got %v", e.notifier.cancelled)
	}
}

func TestService_Create_NotifierFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.notifier.failCreate = true

	a, err := e.svc.Create(context.Background(), grooming.CreateInput{
		PetID:     e.petID,
		Service:   catalog.ServiceBath,
		StartTime: start(),
	})
	if err != nil {
		t.Fatalf("create should survive calendar outage: %v", err)
	}

	stored, _ := e.repo.GetByID(context.Background(), a.ID)
	if stored.CalendarEventID != "" {
		t.Fatalf("expected no calendar event id, got %q", stored.CalendarEventID)
	}
}
