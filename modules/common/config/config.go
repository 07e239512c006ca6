package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Gemini API
	GeminiAPIKeys    []string // 콤마로 구분된 키 목록 (rate limit 분산용)
	GeminiModel      string   // 브랜드 분석용 텍스트 모델
	GeminiImageModel string   // 컨셉 이미지 생성용 모델

	// Server
	Port string

	// Archive
	ArchivePath     string
	ArchiveMaxBytes int64 // 0이면 무제한

	// Timeout
	RequestTimeout time.Duration
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// ARCHIVE_MAX_BYTES 파싱
	maxBytes := int64(5 * 1024 * 1024) // 기본값 5MB
	if bytesStr := os.Getenv("ARCHIVE_MAX_BYTES"); bytesStr != "" {
		if parsed, err := strconv.ParseInt(bytesStr, 10, 64); err == nil {
			maxBytes = parsed
		}
	}

	// REQUEST_TIMEOUT_SECONDS 파싱
	timeoutSec := 120 // 기본값
	if timeoutStr := os.Getenv("REQUEST_TIMEOUT_SECONDS"); timeoutStr != "" {
		if parsed, err := strconv.Atoi(timeoutStr); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	globalConfig = &Config{
		// Gemini API
		GeminiAPIKeys:    parseAPIKeys(getEnv("GEMINI_API_KEY", "")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		// Server
		Port: getEnv("PORT", "8080"),

		// Archive
		ArchivePath:     getEnv("ARCHIVE_PATH", "data/archive.json"),
		ArchiveMaxBytes: maxBytes,

		// Timeout
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: %s / %s (%d keys)", globalConfig.GeminiModel, globalConfig.GeminiImageModel, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Archive: %s (max %d bytes)", globalConfig.ArchivePath, globalConfig.ArchiveMaxBytes)
	log.Printf("   Request timeout: %s", globalConfig.RequestTimeout)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseAPIKeys - 콤마로 구분된 API 키 목록 파싱
func parseAPIKeys(raw string) []string {
	keys := []string{}
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// PrimaryAPIKey - 첫 번째 API 키 반환
func (c *Config) PrimaryAPIKey() string {
	if len(c.GeminiAPIKeys) == 0 {
		return ""
	}
	return c.GeminiAPIKeys[0]
}
