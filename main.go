package main

import (
	"log"
	"os"
	"strconv"

	"forecastapp/config"
	"forecastapp/database"
	"forecastapp/forecast"
	"forecastapp/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// Set up the application configuration
	config.AppConfig.JWTSecret = jwtSecret
	config.AppConfig.Forecast = forecastConfigFromEnv()

	// Initialize database
	database.Connect(databaseURL)
	defer database.Close()

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(":3000"))
}

// forecastConfigFromEnv reads the optional FORECAST_* overrides on top of
// the default dataset shape (10 stores, 50 items, 93-day period).
func forecastConfigFromEnv() forecast.Config {
	cfg := forecast.DefaultConfig()
	cfg.Stores = envInt("FORECAST_STORES", cfg.Stores)
	cfg.Items = envInt("FORECAST_ITEMS", cfg.Items)
	cfg.PeriodDays = envInt("FORECAST_PERIOD_DAYS", cfg.PeriodDays)
	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Invalid %s value %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}
