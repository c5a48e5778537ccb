package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"parking_reservation/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

type Config struct {
	ServerPort string

	StoreDriver    string
	BadgerDir      string
	BadgerInMemory bool

	DBDriver   string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	Tariff           domain.Tariff
	MaxBlockCapacity int

	JWTSecret          string
	JWTExpirationHours time.Duration

	LoginRatePerSecond float64
	LoginBurst         int

	AWSRegion       string
	SQSGateQueueURL string
	IoTEndpoint     string
	PanelTopic      string
	LPREnabled      bool
}

// Load lê o .env (se existir) e as variáveis de ambiente.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("não foi possível carregar o arquivo .env")
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		StoreDriver:    getEnv("STORE_DRIVER", StoreBadger),
		BadgerDir:      getEnv("BADGER_DIR", "./data"),
		BadgerInMemory: getEnv("BADGER_IN_MEMORY", "false") == "true",

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "estacionamento"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "troque-esta-chave"),

		AWSRegion:       getEnv("AWS_REGION", "sa-east-1"),
		SQSGateQueueURL: getEnv("SQS_GATE_QUEUE_URL", ""),
		IoTEndpoint:     getEnv("IOT_ENDPOINT", ""),
		PanelTopic:      getEnv("PANEL_TOPIC", ""),
		LPREnabled:      getEnv("LPR_ENABLED", "false") == "true",
	}

	if cfg.StoreDriver != StoreBadger && cfg.StoreDriver != StorePostgres {
		return nil, fmt.Errorf("STORE_DRIVER inválido: '%s'", cfg.StoreDriver)
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "pgx" {
		return nil, fmt.Errorf("DB_DRIVER inválido: '%s'", cfg.DBDriver)
	}

	if cfg.DBPort, err = getInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	jwtHours, err := getInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTExpirationHours = time.Duration(jwtHours) * time.Hour

	if cfg.LoginRatePerSecond, err = getFloat("LOGIN_RATE_PER_SECOND", 1); err != nil {
		return nil, err
	}
	if cfg.LoginBurst, err = getInt("LOGIN_BURST", 5); err != nil {
		return nil, err
	}

	if cfg.MaxBlockCapacity, err = getInt("MAX_BLOCK_CAPACITY", domain.DefaultMaxBlockCapacity); err != nil {
		return nil, err
	}
	if cfg.MaxBlockCapacity < 1 {
		return nil, fmt.Errorf("MAX_BLOCK_CAPACITY inválido: %d", cfg.MaxBlockCapacity)
	}

	rate, err := getFloat("HOURLY_RATE", domain.DefaultHourlyRate)
	if err != nil {
		return nil, err
	}
	rounding, err := domain.ParseRounding(getEnv("FEE_ROUNDING", string(domain.RoundingNone)))
	if err != nil {
		return nil, fmt.Errorf("FEE_ROUNDING: %w", err)
	}
	cfg.Tariff = domain.Tariff{HourlyRate: rate, Rounding: rounding}
	if err := cfg.Tariff.Validate(); err != nil {
		return nil, fmt.Errorf("HOURLY_RATE: %w", err)
	}
	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Debug().Str("key", key).Str("default", fallback).Msg("variável de ambiente não definida, usando padrão")
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: '%s'", key, raw)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: '%s'", key, raw)
	}
	return v, nil
}
