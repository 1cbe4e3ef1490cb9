// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var algoritmosSuportados = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Config agrega todos os parâmetros necessários para API e CLI de carga.
type Config struct {
	HTTPAddress string
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DBConnectRetries int
	DBConnectDelay   time.Duration
	AutoMigrate      bool

	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	RequireAuthForWrites     bool

	CORSOrigins []string

	SeedOnStartup bool
	SeedForce     bool
	SeedDataDirs  []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimitEnabled       bool
	LoginRateLimitMax           int
	LoginRateLimitWindowSeconds int
	LoginRateLimitKeyPrefix     string
}

// Load lê o arquivo .env (quando existe) e depois o ambiente do processo.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: falha ao ler .env: %w", err)
	}

	// Defaults priorizam execução local; variáveis permitem sobrescrever em Docker.
	cfg := Config{
		HTTPAddress:                 getEnv("HTTP_ADDRESS", ":8000"),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
		DatabaseDriver:              strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		PostgresHost:                getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:                getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:                getEnv("POSTGRES_USER", "pwa_user"),
		PostgresPassword:            getEnv("POSTGRES_PASSWORD", "pwa_pass"),
		PostgresDB:                  getEnv("POSTGRES_DB", "pwa_db"),
		PostgresSSLMode:             getEnv("POSTGRES_SSLMODE", "disable"),
		DBConnectRetries:            getEnvAsInt("DB_CONNECT_RETRIES", 10),
		DBConnectDelay:              time.Duration(getEnvAsInt("DB_CONNECT_DELAY_SECONDS", 3)) * time.Second,
		AutoMigrate:                 getEnvAsBool("DB_AUTO_MIGRATE", true),
		SecretKey:                   getEnv("SECRET_KEY", "change-me"),
		Algorithm:                   strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		AccessTokenExpireMinutes:    getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		RequireAuthForWrites:        getEnvAsBool("REQUIRE_AUTH_FOR_WRITES", false),
		CORSOrigins:                 getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		SeedOnStartup:               getEnvAsBool("SEED_ON_STARTUP", true),
		SeedForce:                   getEnvAsBool("SEED_FORCE", false),
		SeedDataDirs:                getEnvAsList("SEED_DATA_DIRS", []string{"data", "/app/data", ".", "/workspace"}),
		RedisAddr:                   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		LoginRateLimitEnabled:       getEnvAsBool("LOGIN_RATE_LIMIT_ENABLED", false),
		LoginRateLimitMax:           getEnvAsInt("LOGIN_RATE_LIMIT_MAX", 10),
		LoginRateLimitWindowSeconds: getEnvAsInt("LOGIN_RATE_LIMIT_WINDOW", 60),
		LoginRateLimitKeyPrefix:     getEnv("LOGIN_RATE_LIMIT_PREFIX", "login"),
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	if !algoritmosSuportados[cfg.Algorithm] {
		return Config{}, fmt.Errorf("config: ALGORITHM %q nao suportado", cfg.Algorithm)
	}
	if cfg.AccessTokenExpireMinutes <= 0 {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES deve ser positivo")
	}
	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return Config{}, fmt.Errorf("config: DATABASE_DRIVER %q nao suportado", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// DatabaseDSN devolve DATABASE_URL quando informado; senão monta o DSN do Postgres.
func (c Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.PostgresDSN()
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c Config) LoginRateLimitWindow() time.Duration {
	return time.Duration(c.LoginRateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}

func getEnvAsList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var itens []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			itens = append(itens, item)
		}
	}
	if len(itens) == 0 {
		return fallback
	}
	return itens
}
