package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	DatabaseURL     string
	RedisAddr       string
	RedisDB         int
	RedisTimeout    time.Duration
	SessionSecret   string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	OTPTTL          time.Duration
	MailBackend     string
	MailFrom        string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	SendgridAPIKey  string
	RateBackend     string
	RateLimitPerMin int
	TemplateGlob    string
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file in the working directory is read first when
// present.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:classtrack.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         intEnv("REDIS_DB", 0),
		RedisTimeout:    durationEnv("REDIS_TIMEOUT", 2*time.Second),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-session-secret-change"),
		JWTIssuer:       getEnv("JWT_ISSUER", "classtrack"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:       durationEnv("ACCESS_TTL", 15*time.Minute),
		OTPTTL:          durationEnv("OTP_TTL", 10*time.Minute),
		MailBackend:     getEnv("MAIL_BACKEND", "console"),
		MailFrom:        getEnv("MAIL_FROM", "classtrack@localhost"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        intEnv("SMTP_PORT", 587),
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		RateBackend:     getEnv("RATE_BACKEND", "memory"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 30),
		TemplateGlob:    getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
