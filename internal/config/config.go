package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. It is built once in main and passed by value to
// the components that need it; nothing reads the environment after startup.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	StoreDriver     string        // "mysql" or "memory"
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBMigrate       bool          // apply embedded migrations on startup
	JWTSecret       string        // secret used to sign session tokens
	TokenTTL        time.Duration // session token and cookie lifetime
	CookieSecure    bool          // mark the session cookie Secure
	BcryptCost      int           // bcrypt cost for password hashing
	CORSOrigin      string        // browser origin allowed to send credentials
	LogLevel        string        // zerolog level name
	LogFormat       string        // "json" or "console"
	AMQPURL         string        // RabbitMQ URL; empty disables event publishing
	EventsQueue     string        // queue receiving contact/user notifications
	ShutdownTimeout time.Duration // graceful shutdown budget
}

// Load reads configuration values from environment variables and returns a
// Config. Defaults are applied here; required values are checked by Validate.
func Load() Config {
	amqpURL := envStr("AMQP_URL", "")
	if amqpURL == "" {
		amqpURL = envStr("RABBITMQ_URL", "")
	}
	return Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "5000"),
		StoreDriver:     strings.ToLower(envStr("STORE_DRIVER", StoreMySQL)),
		DBUser:          envStr("DB_USER", ""),
		DBPass:          envStr("DB_PASS", ""),
		DBHost:          envStr("DB_HOST", ""),
		DBPort:          envStr("DB_PORT", "3306"),
		DBName:          envStr("DB_NAME", ""),
		DBMigrate:       envBool("DB_MIGRATE", true),
		JWTSecret:       envStr("JWT_SECRET", ""),
		TokenTTL:        envDur("TOKEN_TTL", 24*time.Hour),
		CookieSecure:    envBool("COOKIE_SECURE", false),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		CORSOrigin:      envStr("CORS_ORIGIN", "http://localhost:3000"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(envStr("LOG_FORMAT", "json")),
		AMQPURL:         amqpURL,
		EventsQueue:     envStr("EVENTS_QUEUE", "contacts.events"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate reports every missing or out-of-range value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	// bcrypt accepts costs 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	switch c.StoreDriver {
	case StoreMySQL:
		required := []struct{ key, val string }{
			{"DB_USER", c.DBUser},
			{"DB_HOST", c.DBHost},
			{"DB_PORT", c.DBPort},
			{"DB_NAME", c.DBName},
		}
		for _, r := range required {
			if r.val == "" {
				errs = append(errs, fmt.Errorf("%s is required for the mysql store", r.key))
			}
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMySQL, StoreMemory, c.StoreDriver))
	}
	return errors.Join(errs...)
}
