package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/calidata/monitor-inversiones/internal/datastore"
	"github.com/calidata/monitor-inversiones/internal/env"
	"github.com/calidata/monitor-inversiones/internal/geodata"
	"github.com/calidata/monitor-inversiones/internal/logger"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config{
		addr:         env.GetString("ADDR", ":8080"),
		dataBaseURL:  env.GetString("DATA_BASE_URL", "http://localhost:9000"),
		registryPath: env.GetString("GEODATA_REGISTRY", ""),
		corsOrigins:  env.GetStrings("CORS_ORIGINS", []string{"*"}),
		fetchTimeout: env.GetDuration("FETCH_TIMEOUT", geodata.DefaultTimeout),
		preload:      env.GetBool("GEODATA_PRELOAD", false),
	}

	appLogger := logger.New(logger.ParseLevel(env.GetString("LOG_LEVEL", "INFO")))

	reg, err := loadRegistry(cfg.registryPath)
	if err != nil {
		log.Panic(err)
	}

	cache := geodata.NewCache()
	loader := geodata.NewLoader(cfg.dataBaseURL, reg, cache, appLogger)
	geo := geodata.NewOptimizedLoader(loader, reg, appLogger)
	client := datastore.NewClient(cfg.dataBaseURL, cfg.fetchTimeout, appLogger)
	store := datastore.NewStore(client, geo, loader, appLogger)

	app := &application{
		config:    cfg,
		appLogger: appLogger,
		store:     store,
		geo:       geo,
		cache:     cache,
	}

	ctx := context.Background()
	if err := store.LoadAll(ctx); err != nil {
		// Keep serving: the error state is exposed on /v1/health and a
		// reload can be triggered through /v1/datos/recargar.
		appLogger.Error("Startup", "Initial data load failed, serving with error state: error=%v", err)
	}

	if cfg.preload {
		go geo.Preload(ctx)
	}

	mux := app.mount()

	log.Fatal(app.run(mux))
}

func loadRegistry(path string) (*geodata.Registry, error) {
	if path != "" {
		return geodata.LoadRegistryFile(path)
	}
	return geodata.DefaultRegistry()
}
