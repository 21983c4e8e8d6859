package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config 运行配置,全部来自环境变量(.env 由 main 负责加载)
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	SiteURL       string
	UploadDir     string
	PageSize      int           // 每页文章数
	CacheTTL      time.Duration // 首页缓存有效期
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "./web/media"),
		PageSize:      getEnvInt("PAGE_SIZE", 10),
		CacheTTL:      getEnvDuration("CACHE_TTL", 20*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
			return fallback
		}
		return d
	}
	return fallback
}
