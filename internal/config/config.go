package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string
	JWTSecret     string
	JWTExpiration time.Duration
	MongoURI      string
	MongoDB       string
	DataDir       string
}

// Load reads configuration from the environment, with a .env file applied
// first when one exists. MongoURI empty selects the in-memory store.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", "devconnector"),
		DataDir:       getEnv("DATA_DIR", "./data"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
