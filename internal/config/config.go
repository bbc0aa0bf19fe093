package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// MaxFeeBps — верхняя граница комиссии площадки (10%).
const MaxFeeBps = 1000

// Config хранит все параметры запуска приложения.
type Config struct {
	Env             string
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	FeeBps          uint64
	ArbitratorID    uuid.UUID
	OperatorKeyHash string
	AllowedOrigins  []string
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:      env,
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		// Пустой DATABASE_URL отключает журнал событий.
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	// Валидация JWT секретов
	jwtSecret := getEnv("JWT_SECRET", "")
	refreshSecret := getEnv("REFRESH_SECRET", "")

	if env == "production" {
		if jwtSecret == "" || len(jwtSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET обязателен и должен быть не менее 32 символов в production")
		}
		if refreshSecret == "" || len(refreshSecret) < 32 {
			return nil, fmt.Errorf("config: REFRESH_SECRET обязателен и должен быть не менее 32 символов в production")
		}
	} else {
		if jwtSecret == "" {
			jwtSecret = "super-secret-development-only-change-in-production"
			log.Printf("config: WARNING - используется дефолтный JWT_SECRET, измените в production!")
		}
		if refreshSecret == "" {
			refreshSecret = "super-refresh-secret-development-only-change-in-production"
			log.Printf("config: WARNING - используется дефолтный REFRESH_SECRET, измените в production!")
		}
	}

	cfg.JWTSecret = jwtSecret
	cfg.RefreshSecret = refreshSecret

	// Комиссия площадки в базисных пунктах (1 bps = 0.01%).
	feeBps := mustParseUint64(getEnv("PLATFORM_FEE_BPS", "250"))
	if feeBps > MaxFeeBps {
		return nil, fmt.Errorf("config: PLATFORM_FEE_BPS не может превышать %d", MaxFeeBps)
	}
	cfg.FeeBps = feeBps

	// Идентификатор арбитра. Если не задан, генерируем и пишем в лог:
	// без него невозможно разрешать споры.
	arbitratorStr := getEnv("ARBITRATOR_ID", "")
	if arbitratorStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: ARBITRATOR_ID обязателен в production")
		}
		cfg.ArbitratorID = uuid.New()
		log.Printf("config: ARBITRATOR_ID не задан, сгенерирован: %s", cfg.ArbitratorID)
	} else {
		parsed, err := uuid.Parse(arbitratorStr)
		if err != nil {
			return nil, fmt.Errorf("config: некорректный ARBITRATOR_ID: %w", err)
		}
		cfg.ArbitratorID = parsed
	}

	// bcrypt-хэш операторского ключа, которым подтверждаются привилегированные токены.
	cfg.OperatorKeyHash = getEnv("OPERATOR_KEY_HASH", "")
	if env == "production" && cfg.OperatorKeyHash == "" {
		return nil, fmt.Errorf("config: OPERATOR_KEY_HASH обязателен в production")
	}

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	cfg.AccessTokenTTL = mustParseDuration(getEnv("ACCESS_TOKEN_TTL", "15m"))
	cfg.RefreshTokenTTL = mustParseDuration(getEnv("REFRESH_TOKEN_TTL", "720h"))

	// Rate limiting настройки
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "10"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в число.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}

// mustParseUint64 безопасно парсит строку в беззнаковое число.
func mustParseUint64(v string) uint64 {
	num, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
