package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBusinessOpen      = "BUSINESS_OPEN"
	EnvBusinessClose     = "BUSINESS_CLOSE"
	EnvSlotIntervalMin   = "SLOT_INTERVAL_MIN"
	EnvOperatingTimeZone = "OPERATING_TIME_ZONE"

	EnvCustomerNotificationTopic = "CUSTOMER_NOTIFICATION_TOPIC"
	EnvOperatorNotificationTopic = "OPERATOR_NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic      = "NOTIFICATION_DLQ_TOPIC"

	EnvSMTPHost      = "SMTP_HOST"
	EnvSMTPPort      = "SMTP_PORT"
	EnvSMTPFrom      = "SMTP_FROM"
	EnvOperatorEmail = "OPERATOR_EMAIL"
)
