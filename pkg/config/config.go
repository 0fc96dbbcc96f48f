package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
	BackendDynamoDB  = "dynamodb"
	BackendDefault   = "default"
)

// Auth modes
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// DefaultJWTSecret is only acceptable in development and test
const DefaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string
	Env                     string
	StoreBackend            string
	RatingsBackend          string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	AWSRegion               string
	DynamoRatingsTable      string
	DynamoRatingStatsTable  string
	DynamoEndpoint          string
	AuthMode                string
	JWTSecret               string
	RateLimitPerMinute      int
}

// Load reads the configuration from the environment, after loading an optional .env file
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	env := getEnv("ENV", "development")
	defaultBackend := BackendFirestore
	defaultAuth := AuthFirebase
	if env == "development" || env == "test" {
		defaultBackend = BackendMemory
		defaultAuth = AuthJWT
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		StoreBackend:            getEnv("STORE_BACKEND", defaultBackend),
		RatingsBackend:          getEnv("RATINGS_BACKEND", BackendDefault),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "linkup"),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		DynamoRatingsTable:      getEnv("DYNAMO_RATINGS_TABLE", "Ratings"),
		DynamoRatingStatsTable:  getEnv("DYNAMO_RATING_STATS_TABLE", "RatingStats"),
		DynamoEndpoint:          getEnv("DYNAMO_ENDPOINT", ""),
		AuthMode:                getEnv("AUTH_MODE", defaultAuth),
		JWTSecret:               getEnv("JWT_SECRET", DefaultJWTSecret),
		RateLimitPerMinute:      getEnvInt("RATE_LIMIT_RPM", 30),
	}
}

// IsDevelopment reports whether the service runs in development or test mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// Validate rejects settings that are unsafe outside development
func (c *Config) Validate() error {
	if c.AuthMode == AuthJWT && c.JWTSecret == DefaultJWTSecret && !c.IsDevelopment() {
		return errors.New("JWT_SECRET must be set when AUTH_MODE=jwt outside development")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q, using %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
