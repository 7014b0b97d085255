package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"pawmarket/internal/notifications"
	"pawmarket/internal/notifications/email"
	"pawmarket/pkg/config"
	"pawmarket/pkg/kafka"
	kafka_config "pawmarket/pkg/kafka/config"
	kafkamiddleware "pawmarket/pkg/kafka/middleware"
	"pawmarket/pkg/logger"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	defer cfg.GracefulShutdown()

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	sender := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	customerWorker := notifications.NewCustomerWorker(sender, cfg.Log)
	operatorWorker := notifications.NewOperatorWorker(sender, cfg.OperatorEmail, cfg.Log)

	customerConsumer := newConsumer(kafkaCfg, cfg.CustomerNotificationTopic, "notifier-customer", cfg.NotificationDLQTopic, customerWorker.Handle, cfg.Log)
	operatorConsumer := newConsumer(kafkaCfg, cfg.OperatorNotificationTopic, "notifier-operator", cfg.NotificationDLQTopic, operatorWorker.Handle, cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, consumer := range []*kafka.Consumer{customerConsumer, operatorConsumer} {
		go func(c *kafka.Consumer) {
			if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				cfg.Log.Error("Consumer stopped", "error", err)
			}
		}(consumer)
	}

	cfg.Log.Info("Notifier started",
		"customer_topic", cfg.CustomerNotificationTopic,
		"operator_topic", cfg.OperatorNotificationTopic,
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	cfg.Log.Info("Shutting down notifier", "signal", sig.String())

	cancel()
	for _, consumer := range []*kafka.Consumer{customerConsumer, operatorConsumer} {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}
}

func newConsumer(kafkaCfg *kafka_config.Config, topic, groupID, dlqTopic string, handler kafka.MessageHandler, log *logger.Logger) *kafka.Consumer {
	consumer, err := kafka.NewConsumer(kafkaCfg, topic, groupID, dlqTopic, handler)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "topic", topic, "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(log))
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	return consumer
}
