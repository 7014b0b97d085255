package main

import (
	"pawmarket/internal/catalog/handler"
	"pawmarket/internal/catalog/repository"
	"pawmarket/internal/catalog/service"
	"pawmarket/internal/catalog/validator"
	"pawmarket/pkg/app"
	"pawmarket/pkg/config"
)

const ServiceName = "catalog"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Catalog service")
	catalogService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewServiceHandler(catalogService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CatalogService {
	catalogService := service.NewCatalogService(
		repository.NewMongoServiceRepository(cfg),
		validator.NewServiceValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogService
}
