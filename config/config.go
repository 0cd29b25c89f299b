package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
		ReadTimeoutSeconds  int `envconfig:"READ_TIMEOUT_SECONDS" default:"15"`
		WriteTimeoutSeconds int `envconfig:"WRITE_TIMEOUT_SECONDS" default:"30"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"villa-pura"`
		Timezone string `envconfig:"TIMEZONE" default:"Asia/Makassar"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey   string `envconfig:"API_KEY"`
		Property struct {
			Name               string `envconfig:"NAME" default:"Villa Pura Bali"`
			OwnerEmail         string `envconfig:"OWNER_EMAIL"`
			Location           string `envconfig:"LOCATION" default:"Bali, Indonesia"`
			HorizonEnd         string `envconfig:"HORIZON_END" default:"2027-02-01"`
			MaxGuests          int    `envconfig:"MAX_GUESTS" default:"8"`
			DepositPercent     int64  `envconfig:"DEPOSIT_PERCENT" default:"30"`
			DepositMinLeadDays int    `envconfig:"DEPOSIT_MIN_LEAD_DAYS" default:"45"`
			BalanceDueLeadDays int    `envconfig:"BALANCE_DUE_LEAD_DAYS" default:"28"`
			MaxAdvanceDays     int    `envconfig:"MAX_ADVANCE_DAYS" default:"730"`
		} `envconfig:"PROPERTY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret    string `envconfig:"ACCESS_SECRET"`
		AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN" default:"60"`
	} `envconfig:"JWT"`

	Admin struct {
		Username     string `envconfig:"USERNAME"`
		PasswordHash string `envconfig:"PASSWORD_HASH"`
	} `envconfig:"ADMIN"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Stripe struct {
		SecretKey               string `envconfig:"SECRET_KEY"`
		WebhookSecret           string `envconfig:"WEBHOOK_SECRET"`
		WebhookToleranceSeconds int    `envconfig:"WEBHOOK_TOLERANCE_SECONDS" default:"300"`
		TimeoutSeconds          int    `envconfig:"TIMEOUT_SECONDS" default:"20"`
		ProcessedEventCap       int    `envconfig:"PROCESSED_EVENT_CAP" default:"10000"`
		ProcessedEventEvict     int    `envconfig:"PROCESSED_EVENT_EVICT" default:"1000"`
	} `envconfig:"STRIPE"`

	SMTP struct {
		Host        string `envconfig:"HOST"`
		Port        int    `envconfig:"PORT" default:"587"`
		Username    string `envconfig:"USERNAME"`
		Password    string `envconfig:"PASSWORD"`
		FromName    string `envconfig:"FROM_NAME" default:"Villa Pura Bali"`
		FromAddress string `envconfig:"FROM_ADDRESS"`
		TimeoutSecs int    `envconfig:"TIMEOUT_SECONDS" default:"15"`
	} `envconfig:"SMTP"`

	Calendar struct {
		FeedURL                string `envconfig:"FEED_URL"`
		TimeoutSeconds         int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
		RefreshIntervalMinutes int    `envconfig:"REFRESH_INTERVAL_MINUTES" default:"60"`
		SnapshotTTLSeconds     int    `envconfig:"SNAPSHOT_TTL_SECONDS" default:"10800"`
		FallbackBucket         string `envconfig:"FALLBACK_BUCKET"`
		FallbackKey            string `envconfig:"FALLBACK_KEY" default:"calendar/fallback.ics"`
	} `envconfig:"CALENDAR"`

	Exchange struct {
		APIURL         string `envconfig:"API_URL" default:"https://api.exchangerate-api.com/v4/latest"`
		TTLSeconds     int    `envconfig:"TTL_SECONDS" default:"900"`
		TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"5"`
	} `envconfig:"EXCHANGE"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		Topic   string   `envconfig:"TOPIC" default:"villa.booking-events"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	Jobs struct {
		Enable    bool `envconfig:"ENABLE" default:"true"`
		DailyHour uint `envconfig:"DAILY_HOUR" default:"9"`
	} `envconfig:"JOBS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			Region          string `envconfig:"REGION" default:"auto"`
			BucketName      string `envconfig:"BUCKET_NAME"`
		} `envconfig:"S3"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
