package main

import (
	bookinghandler "pawmarket/internal/bookings/handler"
	bookingrepo "pawmarket/internal/bookings/repository"
	bookingservice "pawmarket/internal/bookings/service"
	bookingvalidator "pawmarket/internal/bookings/validator"
	catalogrepo "pawmarket/internal/catalog/repository"
	catalogservice "pawmarket/internal/catalog/service"
	catalogvalidator "pawmarket/internal/catalog/validator"
	"pawmarket/internal/notifications"
	petsrepo "pawmarket/internal/pets/repository"
	petsservice "pawmarket/internal/pets/service"
	petsvalidator "pawmarket/internal/pets/validator"
	"pawmarket/pkg/app"
	"pawmarket/pkg/config"
	"pawmarket/pkg/kafka"
	kafka_config "pawmarket/pkg/kafka/config"
	kafkamiddleware "pawmarket/pkg/kafka/middleware"
	"pawmarket/pkg/logger"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close notification publisher", "error", err)
		}
	}()

	bookingService, availabilityService := initServices(cfg, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, bookinghandler.NewBookingHandler(bookingService, availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher notifications.Publisher) (bookingservice.BookingService, bookingservice.AvailabilityService) {
	catalog := catalogservice.NewCatalogService(
		catalogrepo.NewMongoServiceRepository(cfg),
		catalogvalidator.NewServiceValidator(cfg.Log),
		cfg,
	)
	pets := petsservice.NewPetsService(
		petsrepo.NewMongoPetRepository(cfg),
		petsvalidator.NewPetValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		bookingrepo.NewSlotLockRepository(cfg),
		catalog,
		pets,
		publisher,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	availabilityService := bookingservice.NewAvailabilityService(bookingRepo, catalog, cfg)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, availabilityService
}

func initPublisher(cfg *config.Config) notifications.Publisher {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	customer := newProducer(kafkaCfg, cfg.CustomerNotificationTopic, cfg.NotificationDLQTopic, cfg.Log)
	operator := newProducer(kafkaCfg, cfg.OperatorNotificationTopic, cfg.NotificationDLQTopic, cfg.Log)

	return notifications.NewPublisher(customer, operator)
}

func newProducer(kafkaCfg *kafka_config.Config, topic, dlqTopic string, log *logger.Logger) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, topic, dlqTopic)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	return producer
}
