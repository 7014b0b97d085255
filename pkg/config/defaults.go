package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "pawmarket"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Business window for availability browsing. Fixed hours, not derived
	// from any per-service schedule.
	DefaultBusinessOpen      = "09:00"
	DefaultBusinessClose     = "18:00"
	DefaultSlotIntervalMin   = 30
	DefaultOperatingTimeZone = "UTC"

	DefaultCustomerNotificationTopic = "bookings.notifications.customer"
	DefaultOperatorNotificationTopic = "bookings.notifications.operator"
	DefaultNotificationDLQTopic      = "bookings.notifications.dlq"

	DefaultSMTPHost      = "localhost"
	DefaultSMTPPort      = "1025"
	DefaultSMTPFrom      = "no-reply@pawmarket.local"
	DefaultOperatorEmail = "operations@pawmarket.local"

	DefaultPaginationLimit = 100
)
