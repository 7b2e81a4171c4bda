package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "time"

    "github.com/joho/godotenv"
)

// Config holds the settings shared by both services.  Each field
// corresponds to an environment variable; the two binaries are started
// with their own environment (port, database name).
type Config struct {
    Env        string         // application environment (e.g. "dev", "prod")
    Port       string         // HTTP port to listen on
    DBUser     string         // database username
    DBPass     string         // database password (optional)
    DBHost     string         // database host address
    DBPort     string         // database port number
    DBName     string         // database name
    JWTSecret  string         // secret used to verify admin JWTs
    TokenTTL   int            // lifetime of minted admin tokens in minutes
    TimeZone   *time.Location // zone reservation times are interpreted in
    CORSOrigin string         // allowed CORS origin
}

// Load reads a .env file when one is present, then builds a Config from
// the environment.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        log.Printf("config: ignoring .env: %v", err)
    }
    return Config{
        Env:        must("APP_ENV"),
        Port:       must("APP_PORT"),
        DBUser:     must("DB_USER"),
        DBPass:     os.Getenv("DB_PASS"), // empty allowed
        DBHost:     must("DB_HOST"),
        DBPort:     must("DB_PORT"),
        DBName:     must("DB_NAME"),
        JWTSecret:  must("JWT_SECRET"),
        TokenTTL:   envInt("ADMIN_TOKEN_TTL_MIN", 60),
        TimeZone:   loadLocation(envStr("APP_TIMEZONE", "Local")),
        CORSOrigin: envStr("CORS_ORIGIN", "*"),
    }
}

// LoadSecret returns only the JWT secret and token lifetime, for tools
// that mint tokens without touching the database.
func LoadSecret() (string, int) {
    _ = godotenv.Load()
    return must("JWT_SECRET"), envInt("ADMIN_TOKEN_TTL_MIN", 60)
}

func loadLocation(name string) *time.Location {
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Fatalf("invalid APP_TIMEZONE %q: %v", name, err)
    }
    return loc
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
