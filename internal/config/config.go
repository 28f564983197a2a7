package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/reconciler"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Repository RepositoryConfig
	CORS       CORSConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig tunes how wall-clock corrections are resolved
type AttendanceConfig struct {
	DefaultTimezone         string
	NightShiftHourThreshold int
	MaxShiftHours           int
}

// RepositoryConfig selects the storage backend: "postgres" or "memory"
type RepositoryConfig struct {
	Type string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CronConfig struct {
	Enabled                bool
	OverlongSessionsPeriod time.Duration
}

// Load reads configuration from the environment. A .env file is loaded first
// when present; a missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
		slog.Warn("No .env file found, using environment variables only")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	connLifetime, err := getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: connLifetime,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Attendance configuration
	threshold, err := getEnvInt("ATTENDANCE_NIGHT_SHIFT_HOUR_THRESHOLD", reconciler.NightShiftHourThreshold)
	if err != nil {
		return nil, err
	}
	maxShiftHours, err := getEnvInt("ATTENDANCE_MAX_SHIFT_HOURS", int(reconciler.MaxShiftDuration/time.Hour))
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		DefaultTimezone:         getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "Asia/Jakarta"),
		NightShiftHourThreshold: threshold,
		MaxShiftHours:           maxShiftHours,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Repository = RepositoryConfig{
		Type: strings.ToLower(getEnv("REPOSITORY_TYPE", "postgres")),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	overlongPeriod, err := getEnvDuration("CRON_OVERLONG_SESSIONS_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		Enabled:                cronEnabled,
		OverlongSessionsPeriod: overlongPeriod,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Repository.Type {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported REPOSITORY_TYPE %q, expected postgres or memory", c.Repository.Type)
	}

	if _, err := reconciler.LoadZone(c.Attendance.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_DEFAULT_TIMEZONE: %w", err)
	}
	if c.Attendance.NightShiftHourThreshold < 0 || c.Attendance.NightShiftHourThreshold > 24 {
		return fmt.Errorf("ATTENDANCE_NIGHT_SHIFT_HOUR_THRESHOLD must be between 0 and 24")
	}
	if c.Attendance.MaxShiftHours <= 0 {
		return fmt.Errorf("ATTENDANCE_MAX_SHIFT_HOURS must be positive")
	}

	if c.Cron.Enabled && c.Cron.OverlongSessionsPeriod <= 0 {
		return fmt.Errorf("CRON_OVERLONG_SESSIONS_INTERVAL must be positive")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MaxShiftDuration is the configured shift cap as a duration
func (c *Config) MaxShiftDuration() time.Duration {
	return time.Duration(c.Attendance.MaxShiftHours) * time.Hour
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error)
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.App.LogLevel, err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
