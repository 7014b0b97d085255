package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"pawmarket/pkg/client"
	"pawmarket/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BusinessOpen      string
	BusinessClose     string
	SlotIntervalMin   int
	OperatingTimeZone string

	CustomerNotificationTopic string
	OperatorNotificationTopic string
	NotificationDLQTopic      string

	SMTPHost      string
	SMTPPort      string
	SMTPFrom      string
	OperatorEmail string

	Log    *logger.Logger
	Client *client.Client

	location *time.Location
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BusinessOpen:      getEnvStr(EnvBusinessOpen, DefaultBusinessOpen),
		BusinessClose:     getEnvStr(EnvBusinessClose, DefaultBusinessClose),
		SlotIntervalMin:   getEnvNum(EnvSlotIntervalMin, DefaultSlotIntervalMin),
		OperatingTimeZone: getEnvStr(EnvOperatingTimeZone, DefaultOperatingTimeZone),

		CustomerNotificationTopic: getEnvStr(EnvCustomerNotificationTopic, DefaultCustomerNotificationTopic),
		OperatorNotificationTopic: getEnvStr(EnvOperatorNotificationTopic, DefaultOperatorNotificationTopic),
		NotificationDLQTopic:      getEnvStr(EnvNotificationDLQTopic, DefaultNotificationDLQTopic),

		SMTPHost:      getEnvStr(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:      getEnvStr(EnvSMTPPort, DefaultSMTPPort),
		SMTPFrom:      getEnvStr(EnvSMTPFrom, DefaultSMTPFrom),
		OperatorEmail: getEnvStr(EnvOperatorEmail, DefaultOperatorEmail),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// OperatingLocation returns the timezone the business hours are anchored in.
// Validate resolves it once at startup.
func (cfg *Config) OperatingLocation() *time.Location {
	if cfg.location == nil {
		return time.UTC
	}
	return cfg.location
}

var timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !timeOfDayRegex.MatchString(cfg.BusinessOpen) {
		errors = append(errors, fmt.Sprintf("BusinessOpen must be in HH:MM format (00:00-23:59), got: %s", cfg.BusinessOpen))
	}
	if !timeOfDayRegex.MatchString(cfg.BusinessClose) {
		errors = append(errors, fmt.Sprintf("BusinessClose must be in HH:MM format (00:00-23:59), got: %s", cfg.BusinessClose))
	}
	if cfg.BusinessOpen >= cfg.BusinessClose &&
		timeOfDayRegex.MatchString(cfg.BusinessOpen) && timeOfDayRegex.MatchString(cfg.BusinessClose) {
		errors = append(errors, fmt.Sprintf("BusinessClose (%s) must be after BusinessOpen (%s)", cfg.BusinessClose, cfg.BusinessOpen))
	}
	if cfg.SlotIntervalMin <= 0 {
		errors = append(errors, fmt.Sprintf("SlotIntervalMin must be positive, got: %d", cfg.SlotIntervalMin))
	}

	loc, err := time.LoadLocation(cfg.OperatingTimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("OperatingTimeZone is not a valid IANA zone, got: %s", cfg.OperatingTimeZone))
	} else {
		cfg.location = loc
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.CustomerNotificationTopic == "" {
		errors = append(errors, "CustomerNotificationTopic cannot be empty")
	}
	if cfg.OperatorNotificationTopic == "" {
		errors = append(errors, "OperatorNotificationTopic cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"business_open", cfg.BusinessOpen,
		"business_close", cfg.BusinessClose,
		"slot_interval_min", cfg.SlotIntervalMin,
		"operating_time_zone", cfg.OperatingTimeZone,
		"customer_notification_topic", cfg.CustomerNotificationTopic,
		"operator_notification_topic", cfg.OperatorNotificationTopic,
		"notification_dlq_topic", cfg.NotificationDLQTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
