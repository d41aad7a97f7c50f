package config

import "os"

type Config struct {
	Port        string
	Env         string
	PostgresURL string
	MongoURI    string
	RedisAddr   string
	JWTSecret   string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresURL: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:    getEnv("MONGO_URI", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
