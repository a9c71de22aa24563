package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by LEADDESK_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading. Missing files
// are skipped and the process environment still applies.
func Load() {
	envFile := os.Getenv("LEADDESK_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// JWTSecret is the HMAC key for bearer tokens. The server refuses to start
// without one.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

// TokenTTL returns how long issued tokens stay valid.
// Defaults to 24h if not set or unparsable.
func TokenTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("TOKEN_TTL"))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// AutoMigrate reports whether the server applies the schema on boot.
// Defaults to true.
func AutoMigrate() bool {
	v, err := strconv.ParseBool(os.Getenv("AUTO_MIGRATE"))
	if err != nil {
		return true
	}
	return v
}

// DecompressMaxBytes caps the size of a gunzipped payload.
// Defaults to 32 MiB.
func DecompressMaxBytes() int64 {
	n, err := strconv.ParseInt(os.Getenv("DECOMPRESS_MAX_BYTES"), 10, 64)
	if err != nil || n <= 0 {
		return 32 << 20
	}
	return n
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
