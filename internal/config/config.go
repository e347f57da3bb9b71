package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload" // Load .env for PORT and TODO_DB_* if present
)

// Database holds the store settings. Driver selects the backend: "sqlite"
// (default, local file) or "postgres".
type Database struct {
	Driver string

	// sqlite
	Path string

	// postgres
	Host     string
	Port     string
	Username string
	Password string
	Name     string
}

type Config struct {
	Port int
	Env  string // "development" (default) or "production"
	DB   Database
}

// Load reads the configuration from the environment. It is called once in
// main and the result is passed down explicitly; nothing in this package
// keeps state.
func Load() Config {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	driver := os.Getenv("TODO_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	path := os.Getenv("TODO_DB_PATH")
	if path == "" {
		path = "todos.db"
	}

	return Config{
		Port: port,
		Env:  env,
		DB: Database{
			Driver:   driver,
			Path:     path,
			Host:     os.Getenv("TODO_DB_HOST"),
			Port:     os.Getenv("TODO_DB_PORT"),
			Username: os.Getenv("TODO_DB_USERNAME"),
			Password: os.Getenv("TODO_DB_PASSWORD"),
			Name:     os.Getenv("TODO_DB_DATABASE"),
		},
	}
}

// IsProduction gates dev-only surfaces such as the reset endpoint.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
