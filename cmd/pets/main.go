package main

import (
	"pawmarket/internal/pets/handler"
	"pawmarket/internal/pets/repository"
	"pawmarket/internal/pets/service"
	"pawmarket/internal/pets/validator"
	"pawmarket/pkg/app"
	"pawmarket/pkg/config"
)

const ServiceName = "pets"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Pets service")
	petsService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewPetHandler(petsService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PetsService {
	petsService := service.NewPetsService(
		repository.NewMongoPetRepository(cfg),
		validator.NewPetValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Pets service initialized", "database", cfg.MongoDatabaseName)
	return petsService
}
