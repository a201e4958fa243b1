package main

import (
	"os"

	"github.com/joho/godotenv"

	authhandler "staywise/internal/auth/handler"
	authmiddleware "staywise/internal/auth/middleware"
	authservice "staywise/internal/auth/service"
	"staywise/internal/bookings/events"
	bookinghandler "staywise/internal/bookings/handler"
	bookingrepository "staywise/internal/bookings/repository"
	bookingservice "staywise/internal/bookings/service"
	bookingvalidator "staywise/internal/bookings/validator"
	"staywise/internal/health"
	prophandler "staywise/internal/properties/handler"
	proprepository "staywise/internal/properties/repository"
	propservice "staywise/internal/properties/service"
	propvalidator "staywise/internal/properties/validator"
	usersrepository "staywise/internal/users/repository"
	"staywise/pkg/app"
	"staywise/pkg/clock"
	"staywise/pkg/config"
	"staywise/pkg/db/mongo"
	"staywise/pkg/kafka"
	kafka_config "staywise/pkg/kafka/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load("staywise-api")
	cfg.SetMongo()

	txn := mongo.NewTransactionManager(cfg.Client.Mongo)

	usersRepo := usersrepository.NewMongoUserRepository(cfg)
	authService := authservice.NewAuthService(usersRepo, authservice.NewAuthValidator(cfg.Log), cfg)
	authHandler := authhandler.NewAuthHandler(authService, cfg.Log)

	authenticate := authmiddleware.Authenticate(authService, cfg.Log)
	requireAdmin := authmiddleware.RequireAdmin(cfg.Log)

	propRepo := proprepository.NewMongoPropertyRepository(cfg)
	propService := propservice.NewPropertyService(propRepo, propvalidator.NewPropertyValidator(cfg.Log), cfg)
	propHandler := prophandler.NewPropertyHandler(propService, cfg.Log, authenticate, requireAdmin)

	// Kafka is optional: without brokers configured, lifecycle events are
	// dropped and the API runs standalone.
	publisher := events.NewNoopPublisher()
	var producer *kafka.Producer
	if os.Getenv(kafka_config.EnvKafkaBrokers) != "" {
		kafkaCfg := kafka_config.Load()
		kafkaCfg.LogConfiguration(cfg.Log.Info)

		var err error
		producer, err = kafka.NewProducer(kafkaCfg, events.Topic, events.DLQTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		publisher = events.NewKafkaPublisher(producer, cfg.Log)
	}

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepository.NewMongoBookingLockRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		propRepo,
		usersRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		txn,
		publisher,
		clock.NewSystem(),
		cfg,
	)
	bookingHandler := bookinghandler.NewBookingHandler(bookingService, cfg.Log, authenticate, requireAdmin)

	application := app.NewApplication(cfg, health.NewHandler(cfg),
		authHandler,
		propHandler,
		bookingHandler,
	)
	if producer != nil {
		application.AddCloser(producer)
	}

	application.Run()
}
