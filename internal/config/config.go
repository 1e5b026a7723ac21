package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	OpenAI   OpenAIConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration. Tokens are issued elsewhere; only the
// shared verification secret is needed here.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// OpenAIConfig holds settings for the advisory anomaly validator. An empty
// APIKey disables AI validation entirely.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

// PayrollConfig holds batch processing settings
type PayrollConfig struct {
	WorkerCount      int
	AITimeout        time.Duration
	ReminderInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "gajiku-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET", ""),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	temperature, err := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
	}

	config.OpenAI = OpenAIConfig{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature: temperature,
	}

	workerCount, err := strconv.Atoi(getEnv("PAYROLL_WORKER_COUNT", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKER_COUNT: %w", err)
	}

	aiTimeout, err := time.ParseDuration(getEnv("PAYROLL_AI_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AI_TIMEOUT: %w", err)
	}

	reminderInterval, err := time.ParseDuration(getEnv("PAYROLL_REMINDER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_REMINDER_INTERVAL: %w", err)
	}

	config.Payroll = PayrollConfig{
		WorkerCount:      workerCount,
		AITimeout:        aiTimeout,
		ReminderInterval: reminderInterval,
	}

	return config, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host,
		c.Database.Port, c.Database.Name, c.Database.SSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
