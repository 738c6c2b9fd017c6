package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"github.com/calidata/monitor-inversiones/internal/datastore"
	"github.com/calidata/monitor-inversiones/internal/geodata"
	"github.com/calidata/monitor-inversiones/internal/logger"
	"github.com/calidata/monitor-inversiones/internal/metrics"
)

type application struct {
	config    config
	appLogger *logger.Logger
	store     *datastore.Store
	geo       *geodata.OptimizedLoader
	cache     *geodata.Cache
}

type config struct {
	addr         string
	dataBaseURL  string
	registryPath string
	corsOrigins  []string
	fetchTimeout time.Duration
	preload      bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/proyectos", func(r chi.Router) {
			r.Get("/", app.handleGetProyectos)
			r.Get("/stats", app.handleGetProyectosStats)
			r.Get("/export.csv", app.handleExportProyectosCSV)
			r.Get("/resumen-centros.csv", app.handleExportResumenCSV)
		})
		r.Get("/unidades-proyecto", app.handleGetUnidades)
		r.Get("/actividades", app.handleGetActividades)
		r.Get("/productos", app.handleGetProductos)
		r.Get("/contratos", app.handleGetContratos)

		r.Route("/presupuesto", func(r chi.Router) {
			r.Get("/movimientos", app.handleGetMovimientos)
			r.Get("/ejecucion", app.handleGetEjecucion)
			r.Get("/tendencia", app.handleGetTendencia)
		})

		r.Route("/geodata", func(r chi.Router) {
			r.Get("/disponibilidad", app.handleGeodataDisponibilidad)
			r.Get("/stats", app.handleGeodataStats)
			r.Post("/preload", app.handleGeodataPreload)
			r.Delete("/cache", app.handleGeodataCacheClear)
			r.Get("/{layer}", app.handleGetLayer)
		})

		r.Post("/datos/recargar", app.handleRecargarDatos)
	})

	// The dashboard front-end lives on another origin than the API
	cors := handlers.CORS(
		handlers.AllowedOrigins(app.config.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return cors(r)
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	log.Printf("Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
