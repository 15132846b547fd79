package main

import (
	"github.com/joho/godotenv"

	pageshandler "podium/internal/pages/handler"
	pagesrepo "podium/internal/pages/repository"
	pagesservice "podium/internal/pages/service"
	pagesvalidator "podium/internal/pages/validator"
	speakershandler "podium/internal/speakers/handler"
	speakersrepo "podium/internal/speakers/repository"
	speakersservice "podium/internal/speakers/service"
	speakersvalidator "podium/internal/speakers/validator"
	"podium/pkg/app"
	"podium/pkg/config"
	mongodb "podium/pkg/db/mongo"
	"podium/pkg/kafka"
	kafka_config "podium/pkg/kafka/config"
)

const ServiceName = "podium"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initKafkaProducer(cfg)
	var events speakersservice.EventPublisher
	if producer != nil {
		events = producer
		defer producer.Close()
	}

	pageService, speakerService := initServices(cfg, events)

	application := app.NewApplication(cfg)
	application.SetApp(
		pageshandler.NewPageHandler(pageService, cfg),
		speakershandler.NewSpeakerHandler(speakerService, cfg),
	)
	application.Run()
}

// initKafkaProducer wires the Kafka producer when brokers are
// configured. Without brokers the service runs fine, it just emits no
// booking events.
func initKafkaProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaSpeakerEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to configure Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer configured",
		"topic", cfg.KafkaSpeakerEventsTopic,
		"brokers", kafkaCfg.Brokers,
	)
	return producer
}

func initServices(cfg *config.Config, events speakersservice.EventPublisher) (pagesservice.PageService, speakersservice.SpeakerService) {
	txManager := mongodb.NewTransactionManager(cfg.Client.Mongo)

	pageRepo := pagesrepo.NewMongoPageRepository(cfg)
	speakerRepo := speakersrepo.NewMongoSpeakerRepository(cfg)

	pageService := pagesservice.NewPageService(
		pageRepo,
		speakerRepo,
		pagesvalidator.NewPageValidator(cfg.Log),
		txManager,
		cfg,
	)

	speakerService := speakersservice.NewSpeakerService(
		speakerRepo,
		pageRepo,
		speakersvalidator.NewSpeakerValidator(cfg.Log),
		events,
		cfg,
	)

	cfg.Log.Info("Domain services initialized")
	return pageService, speakerService
}
