package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-alert/docs"
	"pet-alert/internal/adapters/filestore/local"
	"pet-alert/internal/adapters/filestore/s3"
	mem "pet-alert/internal/adapters/storage/memory"
	pg "pet-alert/internal/adapters/storage/postgres"
	sq "pet-alert/internal/adapters/storage/sqlite"
	"pet-alert/internal/domain/dashboard"
	"pet-alert/internal/domain/owners"
	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/relations"
	"pet-alert/internal/domain/sightings"
	"pet-alert/internal/middleware"
	"pet-alert/internal/platform/config"
	"pet-alert/internal/platform/logger"
	"pet-alert/internal/platform/metrics"
	"pet-alert/internal/ports/auth"
	"pet-alert/internal/ports/filestore"
)

type Options struct {
	Config config.Config
	Codec  auth.TokenCodec // puede ser nil (modo dev, X-Debug-Owner-ID)
	Log    logger.Logger
}

// NewRouter arma todo el grafo: repos según driver, file store, services,
// Relationship Manager y rutas. Devuelve también el service de cuentas para
// que main pueda sembrar el admin.
func NewRouter(ctx context.Context, opts Options) (http.Handler, *owners.Service, error) {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{Level: logger.Info})
	}

	var (
		ownerRepo    owners.Repository
		petRepo      pets.Repository
		sightingRepo sightings.Repository
		tx           pets.Atomic
	)

	switch cfg.Driver() {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		ownerRepo = pg.NewOwnersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		sightingRepo = pg.NewSightingsRepo(db)
		tx = db

	case config.DriverSQLite:
		db, err := sq.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		ownerRepo = sq.NewOwnersRepo(db)
		petRepo = sq.NewPetsRepo(db)
		sightingRepo = sq.NewSightingsRepo(db)
		tx = db

	default:
		store := mem.NewStore()
		ownerRepo = mem.NewOwnerRepo(store)
		petRepo = mem.NewPetRepo(store)
		sightingRepo = mem.NewSightingRepo(store)
		tx = store
	}

	// Fotos: S3 si hay bucket configurado, disco local si no.
	var photos filestore.Store
	if strings.TrimSpace(cfg.S3Bucket) != "" {
		st, err := s3.New(ctx, s3.Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		photos = st
	} else {
		st, err := local.NewStore(cfg.UploadsDir)
		if err != nil {
			return nil, nil, err
		}
		photos = st
	}

	// Relationship Manager: único punto de enlace entre registros
	rel := relations.NewManager(ownerRepo, petRepo)

	sightingsSvc := sightings.NewService(sightingRepo, rel)
	ownersSvc := owners.NewService(ownerRepo, opts.Codec, log)
	petsSvc := pets.NewService(petRepo, rel, sightingsSvc, tx, log)
	dashSvc := dashboard.NewService(petRepo, sightingRepo)

	m := metrics.New()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(m.Middleware)
	r.Use(middleware.AuthContext(opts.Codec))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Las fotos guardadas en disco se sirven directo; con S3 las
	// referencias apuntan al bucket y esta ruta no se usa.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	// Rutas por módulo
	owners.RegisterRoutes(r, ownersSvc)
	pets.RegisterRoutes(r, petsSvc, photos)
	sightings.RegisterRoutes(r, sightingsSvc, photos)
	dashboard.RegisterRoutes(r, dashSvc)

	return r, ownersSvc, nil
}
