package configuration

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	PatientJWTSecret string
	DoctorJWTSecret  string
	AdminJWTSecret   string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioVerifySID  string
}

// Load reads configuration from the environment, with .env as a convenience
// for local runs.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		DatabaseDSN: os.Getenv("DB_DSN"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PatientJWTSecret: os.Getenv("PATIENT_JWT_SECRET"),
		DoctorJWTSecret:  os.Getenv("DOCTOR_JWT_SECRET"),
		AdminJWTSecret:   os.Getenv("ADMIN_JWT_SECRET"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioVerifySID:  os.Getenv("TWILIO_VERIFY_SID"),
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPPort = port

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.PatientJWTSecret == "" || cfg.DoctorJWTSecret == "" || cfg.AdminJWTSecret == "" {
		return nil, fmt.Errorf("PATIENT_JWT_SECRET, DOCTOR_JWT_SECRET and ADMIN_JWT_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
