package api

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	APIPrefix         string
	PostgresDSN       string
	RedisAddr         string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	JWTSecret         string
	JWTAccessTTL      time.Duration
	VNPay             vnpay.Config
	MLBaseURL         string
	MLTimeout         time.Duration
	MLCacheTTL        time.Duration
	SMTP              mail.Config
	ResetPasswordURL  string
	CORSOrigins       []string
	ShutdownTimeout   time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		APIPrefix:         strings.TrimRight(envDefault("API_PREFIX", "/api/v1"), "/"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		VNPay: vnpay.Config{
			TmnCode:    strings.TrimSpace(os.Getenv("VNP_TMN_CODE")),
			HashSecret: strings.TrimSpace(os.Getenv("VNP_HASH_SECRET")),
			PaymentURL: envDefault("VNP_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  strings.TrimSpace(os.Getenv("VNP_RETURN_URL")),
		},
		MLBaseURL:        envDefault("ML_BASE_URL", "http://localhost:5000"),
		SMTP:             mail.Config{Host: strings.TrimSpace(os.Getenv("SMTP_HOST")), Port: envDefault("SMTP_PORT", "587"), Username: os.Getenv("SMTP_USERNAME"), Password: os.Getenv("SMTP_PASSWORD"), From: envDefault("MAIL_FROM", "no-reply@flower-shop.local")},
		ResetPasswordURL: envDefault("RESET_PASSWORD_URL", "http://localhost:3000/reset-password"),
		CORSOrigins:      splitList(envDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:4200")),
	}

	var err error
	if cfg.JWTAccessTTL, err = positiveDuration("JWT_TTL_MINUTES", 24*60, time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.MLTimeout, err = positiveDuration("ML_TIMEOUT_SECONDS", 10, time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MLCacheTTL, err = positiveDuration("ML_CACHE_TTL_SECONDS", 300, time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = positiveDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/': %q", c.APIPrefix)
	}
	if u, err := url.Parse(c.MLBaseURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("ML_BASE_URL must be an absolute URL: %q", c.MLBaseURL)
	}
	if u, err := url.Parse(c.ResetPasswordURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("RESET_PASSWORD_URL must be an absolute URL: %q", c.ResetPasswordURL)
	}
	return nil
}

func positiveDuration(key string, fallback int, unit time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(fallback) * unit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
