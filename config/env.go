package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultMongoDatabase   = "catalog"
	defaultMongoTimeout    = "10s"
	defaultMongoMaxPool    = "50"
	defaultRedisAddr       = ""
	defaultRateLimit       = "200"
	defaultJWTSecret       = "change-me-in-production"
	defaultAppPort         = "8080"
	defaultAppEnv          = "local"
	defaultLogCollection   = "logs"
	defaultShutdownTimeout = "15s"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, .env and the process environment over the
// defaults. Later sources win. Only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":              defaultAppEnv,
		"APP_PORT":             defaultAppPort,
		"MONGO_URI":            defaultMongoURI,
		"MONGO_DATABASE":       defaultMongoDatabase,
		"MONGO_TIMEOUT":        defaultMongoTimeout,
		"MONGO_MAX_POOL":       defaultMongoMaxPool,
		"REDIS_ADDR":           defaultRedisAddr,
		"REDIS_PASSWORD":       "",
		"RATE_LIMIT":           defaultRateLimit,
		"JWT_SECRET":           defaultJWTSecret,
		"AUTH_REQUIRED":        "false",
		"LOG_MONGO":            "false",
		"LOG_MONGO_COLLECTION": defaultLogCollection,
		"SHUTDOWN_TIMEOUT":     defaultShutdownTimeout,
		"CORS_ORIGINS":         "*",
	}
}

func AppEnv() string { _ = Load(); return get("APP_ENV", defaultAppEnv) }

func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// ── MongoDB ──────────────────────────────────────────────────────────────────

func MongoURI() string { _ = Load(); return get("MONGO_URI", defaultMongoURI) }

func MongoDatabase() string { _ = Load(); return get("MONGO_DATABASE", defaultMongoDatabase) }

// MongoTimeout bounds connect and server selection.
func MongoTimeout() time.Duration {
	_ = Load()
	return duration("MONGO_TIMEOUT", 10*time.Second)
}

func MongoMaxPool() uint64 {
	_ = Load()
	n, err := strconv.ParseUint(get("MONGO_MAX_POOL", defaultMongoMaxPool), 10, 64)
	if err != nil || n == 0 {
		return 50
	}
	return n
}

// ── Redis / rate limiting ────────────────────────────────────────────────────

// RedisAddr is empty unless configured; an empty address keeps rate limiting
// in process memory.
func RedisAddr() string { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }

func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

// RateLimit is the number of requests allowed per client per minute.
func RateLimit() int {
	_ = Load()
	n, err := strconv.Atoi(get("RATE_LIMIT", defaultRateLimit))
	if err != nil || n <= 0 {
		return 200
	}
	return n
}

// CORSOrigins is a comma-separated list of allowed origins, "*" for any.
func CORSOrigins() string { _ = Load(); return get("CORS_ORIGINS", "*") }

// ── Auth ─────────────────────────────────────────────────────────────────────

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

// AuthRequired reports whether write endpoints demand a bearer token.
func AuthRequired() bool { _ = Load(); return boolean("AUTH_REQUIRED") }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogToMongo() bool { _ = Load(); return boolean("LOG_MONGO") }

func LogMongoCollection() string {
	_ = Load()
	return get("LOG_MONGO_COLLECTION", defaultLogCollection)
}

func ShutdownTimeout() time.Duration {
	_ = Load()
	return duration("SHUTDOWN_TIMEOUT", 15*time.Second)
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func boolean(key string) bool {
	b, err := strconv.ParseBool(get(key, "false"))
	return err == nil && b
}

func duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Set overrides key for the rest of the process, e.g. from a CLI flag.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
