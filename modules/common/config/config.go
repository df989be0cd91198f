package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Provider 선택 (openai / gemini)
	TextProvider  string
	ImageProvider string

	// 텍스트 생성 (전생 프로필)
	TextModel       string
	TextTemperature float32

	// 이미지 생성
	ImageModel string

	// Gemini API
	GeminiAPIKey      string
	GeminiTextModel   string
	GeminiImageModel  string
	GeminiWebPQuality int // Gemini 이미지를 WebP로 다시 인코딩할 때 품질 (0이면 원본 그대로)

	// 외부 호출 타임아웃
	ProfileTimeout time.Duration
	ImageTimeout   time.Duration

	// Redis (비어 있으면 비동기 큐 비활성화)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool
	QueueName     string

	// Server
	Port     string
	ShareURL string
}

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Text: %s (%s, temperature %.1f, timeout %s)", cfg.TextProvider, cfg.textModelName(), cfg.TextTemperature, cfg.ProfileTimeout)
	log.Printf("   Image: %s (%s, timeout %s)", cfg.ImageProvider, cfg.imageModelName(), cfg.ImageTimeout)
	if cfg.QueueEnabled() {
		log.Printf("   Redis: %s (TLS: %v, queue: %s)", cfg.GetRedisAddr(), cfg.RedisUseTLS, cfg.QueueName)
	} else {
		log.Println("   Redis: not configured, async queue disabled")
	}
	if cfg.usesProvider(ProviderOpenAI) && cfg.OpenAIAPIKey == "" {
		// 키가 없으면 외부 서비스에서 인증 실패로 돌아온다
		log.Println("⚠️  OPENAI_API_KEY is empty, OpenAI calls will fail with an authentication error")
	}

	return cfg, nil
}

// FromEnv - .env 로드 없이 현재 환경변수만으로 Config 생성
func FromEnv() (*Config, error) {
	temperature, err := getFloat32("TEXT_TEMPERATURE", 1.0)
	if err != nil {
		return nil, err
	}
	profileTimeout, err := getDuration("PROFILE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	imageTimeout, err := getDuration("IMAGE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}
	webpQuality, err := getInt("GEMINI_WEBP_QUALITY", 90)
	if err != nil {
		return nil, err
	}

	// Redis UseTLS 파싱
	useTLS := false
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		TextProvider:  getEnv("TEXT_PROVIDER", ProviderOpenAI),
		ImageProvider: getEnv("IMAGE_PROVIDER", ProviderOpenAI),

		TextModel:       getEnv("TEXT_MODEL", "gpt-4o"),
		TextTemperature: temperature,
		ImageModel:      getEnv("IMAGE_MODEL", "dall-e-3"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiWebPQuality: webpQuality,

		ProfileTimeout: profileTimeout,
		ImageTimeout:   imageTimeout,

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,
		QueueName:     getEnv("QUEUE_NAME", "pastlife:jobs"),

		Port:     getEnv("PORT", "8080"),
		ShareURL: getEnv("SHARE_URL", "https://pastlife.streamlit.app"),
	}, nil
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	for _, p := range []string{c.TextProvider, c.ImageProvider} {
		if p != ProviderOpenAI && p != ProviderGemini {
			return fmt.Errorf("unknown provider %q (want %q or %q)", p, ProviderOpenAI, ProviderGemini)
		}
	}
	if c.usesProvider(ProviderGemini) && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when a gemini provider is selected")
	}
	if c.TextTemperature < 0 || c.TextTemperature > 2 {
		return fmt.Errorf("TEXT_TEMPERATURE must be between 0 and 2, got %.2f", c.TextTemperature)
	}
	if c.ProfileTimeout <= 0 || c.ImageTimeout <= 0 {
		return fmt.Errorf("PROFILE_TIMEOUT and IMAGE_TIMEOUT must be positive")
	}
	if c.GeminiWebPQuality < 0 || c.GeminiWebPQuality > 100 {
		return fmt.Errorf("GEMINI_WEBP_QUALITY must be between 0 and 100, got %d", c.GeminiWebPQuality)
	}
	return nil
}

// QueueEnabled - Redis 큐 사용 여부
func (c *Config) QueueEnabled() bool {
	return c.RedisHost != ""
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) usesProvider(p string) bool {
	return c.TextProvider == p || c.ImageProvider == p
}

func (c *Config) textModelName() string {
	if c.TextProvider == ProviderGemini {
		return c.GeminiTextModel
	}
	return c.TextModel
}

func (c *Config) imageModelName() string {
	if c.ImageProvider == ProviderGemini {
		return c.GeminiImageModel
	}
	return c.ImageModel
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat32(key string, defaultValue float32) (float32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return float32(parsed), nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return parsed, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return parsed, nil
}
