package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	ServerPort      string
	SeedFile        string
	AdminUser       string
	AdminPassword   string
	DefaultAltitude float64
}

var AppConfig Config

func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	AppConfig = cfg
	fmt.Println("Configuration loaded successfully")
	return nil
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		SeedFile:        os.Getenv("SEED_FILE"),
		AdminUser:       getEnv("ADMIN_USER", "admin"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		DefaultAltitude: 2.5,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("DEFAULT_ALTITUDE"); v != "" {
		alt, err := strconv.ParseFloat(v, 64)
		if err != nil || alt < 0 {
			return Config{}, fmt.Errorf("invalid DEFAULT_ALTITUDE %q", v)
		}
		cfg.DefaultAltitude = alt
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
