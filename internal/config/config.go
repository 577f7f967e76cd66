package config

import (
	"os"
)

type Config struct {
	ServerPort  string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "amora"),
		DBPassword:  getEnv("DB_PASSWORD", "amora_dev_password"),
		DBName:      getEnv("DB_NAME", "amora"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		S3Region:    getEnv("S3_REGION", "eu-central-1"),
		S3Bucket:    getEnv("S3_BUCKET", "amora-media"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
