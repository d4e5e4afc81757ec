package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// The dashboard SPA and the mobile client are the only two browser
	// origins allowed to call the API.
	DashboardOrigin string
	MobileOrigin    string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, falling back to process environment")
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DBHost:          getenv("DATABASE_HOST", "localhost"),
		DBPort:          getenv("DATABASE_PORT", "5432"),
		DBUser:          getenv("DATABASE_USERNAME", "postgres"),
		DBPassword:      getenv("DATABASE_PASSWORD", "password"),
		DBName:          getenv("DATABASE_NAME", "payment_dashboard"),
		JWTSecret:       getenv("JWT_SECRET", "default-secret-key-change-in-production"),
		DashboardOrigin: getenv("CORS_ORIGIN_DASHBOARD", "http://localhost:3000"),
		MobileOrigin:    getenv("CORS_ORIGIN_MOBILE", "http://localhost:8081"),
	}
}

// DatabaseURL renders the Postgres DSN from the individual connection fields.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// AllowedOrigins lists the browser origins permitted by the CORS policy.
func (c Config) AllowedOrigins() []string {
	return []string{c.DashboardOrigin, c.MobileOrigin}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
