package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppURL           string

	// Database
	DBUrl string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// SendGrid
	SendGridAPIKey      string
	SendgridFromEmail   string
	SendgridSandboxMode bool

	LogLevel string

	// Seed demo data on startup (local/dev only)
	SeedTestData bool
}

const defaultOrganizationName = "CarePlan"

func LoadConfig(appName string) *Config {
	cfg := &Config{
		OrganizationName: defaultOrganizationName,
		AppName:          appName,
	}

	cfg.AppPort = os.Getenv("APP_PORT")
	if cfg.AppPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	cfg.DBUrl = os.Getenv("DB_URL")
	if cfg.DBUrl == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	pubB64 := os.Getenv("JWT_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("JWT_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("JWT_PUBLIC_KEY_BASE64 is not valid base64")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	cfg.RSAPublicKey = pubKey

	// Optional settings
	cfg.AppURL = os.Getenv("APP_URL")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")

	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.SendgridFromEmail = os.Getenv("SENDGRID_FROM_EMAIL")
	cfg.SendgridSandboxMode = os.Getenv("SENDGRID_SANDBOX_MODE") == "true"
	if cfg.SendGridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set, email delivery disabled")
	}

	cfg.SeedTestData = os.Getenv("SEED_TEST_DATA") == "true"

	return cfg
}
