package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-care-ops/internal/adapters/storage/memory"
	pg "pet-care-ops/internal/adapters/storage/postgres"
	"pet-care-ops/internal/domain/boarding"
	"pet-care-ops/internal/domain/cashier"
	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/clients"
	"pet-care-ops/internal/domain/grooming"
	"pet-care-ops/internal/domain/pets"
	"pet-care-ops/internal/domain/plans"
	"pet-care-ops/internal/domain/pricing"
	"pet-care-ops/internal/middleware"
	"pet-care-ops/internal/platform/logger"
	"pet-care-ops/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory con catálogo demo.
	DB *sql.DB

	// Opcional: notificador de calendario externo.
	Notifier notify.CalendarNotifier
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		clientRepo   clients.Repository
		petRepo      pets.Repository
		catalogRepo  catalog.Repository
		planRepo     plans.Repository
		groomingRepo grooming.Repository
		stayRepo     boarding.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres open failed, falling back to memory", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}

	if db != nil {
		clientRepo = pg.NewClientsRepo(db)
		petRepo = pg.NewPetsRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		planRepo = pg.NewPlansRepo(db)
		groomingRepo = pg.NewGroomingRepo(db)
		stayRepo = pg.NewStaysRepo(db)
	} else {
		clientRepo = mem.NewClientRepo()
		petRepo = mem.NewPetRepo()
		catalogRepo = mem.NewCatalogRepo(mem.DemoCatalog())
		planRepo = mem.NewPlanRepo()
		groomingRepo = mem.NewGroomingRepo()
		stayRepo = mem.NewStayRepo()
	}

	// Services por módulo
	clientsSvc := clients.NewService(clientRepo)
	petsSvc := pets.NewService(petRepo)
	pricer := pricing.NewResolver(catalogRepo)
	ledger := plans.NewLedger(planRepo, catalogRepo)
	groomingSvc := grooming.NewService(groomingRepo, petRepo, clientRepo, catalogRepo, pricer, ledger, opts.Notifier, log)
	boardingSvc := boarding.NewService(stayRepo, petRepo, clientRepo, pricer, ledger, opts.Notifier, log)
	cashierSvc := cashier.NewService(groomingRepo, stayRepo, clientRepo, petRepo, log)

	// Rutas por módulo
	clients.RegisterRoutes(r, clientsSvc, petsSvc)
	pets.RegisterRoutes(r, petsSvc)
	catalog.RegisterRoutes(r, catalogRepo)
	plans.RegisterRoutes(r, ledger)
	grooming.RegisterRoutes(r, groomingSvc)
	boarding.RegisterRoutes(r, boardingSvc)
	cashier.RegisterRoutes(r, cashierSvc)

	return r
}
