package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Mail       MailConfig
	Cloudinary CloudinaryConfig
	Site       SiteConfig
	Booking    BookingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// MailConfig selects and configures the transactional email backend.
// Provider is "brevo" (HTTP API) or "smtp" (direct submission).
type MailConfig struct {
	Provider     string
	BrevoAPIKey  string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	FromName     string
	FromEmail    string
	AdminEmail   string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type SiteConfig struct {
	Name    string
	BaseURL string
}

type BookingConfig struct {
	DefaultFee     float64
	CurrencySymbol string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DB_URL", ""),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Mail: MailConfig{
			Provider:     getEnv("MAIL_PROVIDER", "brevo"),
			BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
			SMTPHost:     getEnv("EMAIL_HOST", "smtp-relay.brevo.com"),
			SMTPPort:     getEnv("EMAIL_PORT", "587"),
			SMTPUser:     getEnv("EMAIL_HOST_USER", ""),
			SMTPPassword: getEnv("EMAIL_HOST_PASSWORD", ""),
			FromName:     getEnv("MAIL_FROM_NAME", "Lashify Artistry"),
			FromEmail:    getEnv("MAIL_FROM_EMAIL", "noreply@lashify-artistry.com"),
			AdminEmail:   getEnv("ADMIN_EMAIL", "admin@lashify-artistry.com"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Site: SiteConfig{
			Name:    getEnv("SITE_NAME", "Lashify Artistry"),
			BaseURL: getEnv("SITE_BASE_URL", "http://localhost:8080"),
		},
		Booking: BookingConfig{
			DefaultFee:     getEnvAsFloat("BOOKING_DEFAULT_FEE", 5000),
			CurrencySymbol: getEnv("BOOKING_CURRENCY_SYMBOL", "₦"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
