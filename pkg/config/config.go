package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime knob of the service. Values come from the
// environment (optionally bootstrapped from a .env file) with sane defaults.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	QRISProviderURL  string
	QRISExpiry       time.Duration
	QRISPollInterval time.Duration
	QRISSweepEvery   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("QRIS_PROVIDER_URL", "http://localhost:4000")
	viper.SetDefault("QRIS_EXPIRY_MINUTES", 15)
	viper.SetDefault("QRIS_POLL_INTERVAL_SECONDS", 3)
	viper.SetDefault("QRIS_SWEEP_INTERVAL_SECONDS", 60)

	dsn := viper.GetString("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
			viper.GetString("DB_HOST"),
			viper.GetString("DB_USER"),
			viper.GetString("DB_PASSWORD"),
			viper.GetString("DB_NAME"),
			viper.GetString("DB_PORT"),
		)
	}

	return &Config{
		Port:        viper.GetString("PORT"),
		DatabaseURL: dsn,
		JWTSecret:   viper.GetString("JWT_SECRET"),

		QRISProviderURL:  viper.GetString("QRIS_PROVIDER_URL"),
		QRISExpiry:       time.Duration(viper.GetInt("QRIS_EXPIRY_MINUTES")) * time.Minute,
		QRISPollInterval: time.Duration(viper.GetInt("QRIS_POLL_INTERVAL_SECONDS")) * time.Second,
		QRISSweepEvery:   time.Duration(viper.GetInt("QRIS_SWEEP_INTERVAL_SECONDS")) * time.Second,
	}
}
