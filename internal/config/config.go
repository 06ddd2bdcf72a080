package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	Storage     string
	DatabaseURL string
	// Worker
	WorkerType      string
	WorkerPoll      time.Duration
	WorkerBatchSize int
	TaskTimeout     time.Duration
	QueueSize       int
	// Redis (idempotency)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	// Panic webhook
	WebhookURL   string
	WebhookToken string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
		Storage:         getEnv("STORAGE", "pg"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		WorkerType:      getEnv("WORKER_TYPE", "db"),
		WorkerPoll:      time.Duration(atoiDef(getEnv("WORKER_POLL_MS", "250"), 250)) * time.Millisecond,
		WorkerBatchSize: atoiDef(getEnv("WORKER_BATCH_LIMIT", "10"), 10),
		TaskTimeout:     time.Duration(atoiDef(getEnv("TASK_TIMEOUT_MS", "5000"), 5000)) * time.Millisecond,
		QueueSize:       atoiDef(getEnv("RUN_QUEUE_SIZE", "128"), 128),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:        time.Duration(atoiDef(getEnv("IDEMPOTENCY_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
		WebhookURL:      getEnv("PANIC_WEBHOOK_URL", ""),
		WebhookToken:    getEnv("PANIC_WEBHOOK_TOKEN", ""),
	}
}
