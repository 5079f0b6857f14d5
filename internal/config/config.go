package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config структура для хранения всей конфигурации приложения.
type Config struct {
	AppEnv      string `env:"APP_ENV" env-default:"development"`
	ServerPort  string `env:"SERVER_PORT" env-default:"8080"`
	Logger      LoggerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Media       MediaConfig
	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
}

// LoggerConfig настройки логирования приложения.
type LoggerConfig struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `env:"LOG_ENCODING" env-default:"json"` // json или console
	OutputPath string `env:"LOG_OUTPUT_PATH" env-default:""`
}

// PostgresConfig конфигурация подключения к PostgreSQL.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-required:"true"`
	Password string `env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `env:"POSTGRES_DB" env-required:"true"`
	SSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
}

// GetDSN собирает строку подключения для pgx.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

// RedisConfig конфигурация подключения к Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// JWTConfig настройки подписи и времени жизни токенов.
type JWTConfig struct {
	Secret          string        `env:"JWT_SECRET" env-required:"true"`
	PasswordPepper  string        `env:"PASSWORD_PEPPER" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`
}

// MediaConfig настройки файлового хранилища медиа.
type MediaConfig struct {
	Root    string `env:"MEDIA_ROOT" env-default:"./media/assets"`
	BaseURL string `env:"MEDIA_BASE_URL" env-default:"/media/assets"`
}

// HuggingFaceConfig настройки Inference API для генерации изображений и музыки.
type HuggingFaceConfig struct {
	Token      string `env:"HF_API_TOKEN" env-default:""`
	ImageModel string `env:"HF_IMAGE_MODEL" env-default:"stabilityai/stable-diffusion-xl-base-1.0"`
	MusicModel string `env:"HF_MUSIC_MODEL" env-default:"facebook/musicgen-small"`
	Timeout    int    `env:"HF_TIMEOUT_SEC" env-default:"120"` // Таймаут в секундах
}

// OpenAIConfig настройки синтеза речи.
type OpenAIConfig struct {
	Token    string `env:"OPENAI_API_TOKEN" env-default:""`
	TTSModel string `env:"OPENAI_TTS_MODEL" env-default:"tts-1"`
	Voice    string `env:"OPENAI_TTS_VOICE" env-default:"alloy"`
}

// CORSConfig настройки CORS для браузерных клиентов.
type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000"`
}

// RateLimitConfig ограничение частоты запросов на auth-эндпоинты.
type RateLimitConfig struct {
	AuthRequestsPerMinute uint `env:"RATE_LIMIT_AUTH_PER_MINUTE" env-default:"30"`
}

// Load загружает конфигурацию из переменных окружения и .env файла.
func Load() *Config {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	return &cfg
}
