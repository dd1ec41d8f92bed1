package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Twitch   TwitchConfig
	Cache    CacheConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	// FrontendURL is where OAuth callbacks redirect after login.
	FrontendURL string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds session-token configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// TwitchConfig holds Twitch OAuth and helix API configuration
type TwitchConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BaseURL      string
	AuthBaseURL  string
	MockAPI      bool
}

// CacheConfig holds the helix proxy cache configuration
type CacheConfig struct {
	Size       int
	TTLSeconds int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration. Well-known flat env
// names (PORT, MONGODB_URI, JWT_SECRET, ...) are honored here because
// viper's automatic mapping only covers the dotted keys.
func setDefaults() {
	viper.SetDefault("Server.Port", GetEnv("PORT", "3000"))
	viper.SetDefault("Server.AllowedHosts", GetEnvAsSlice("ALLOWED_HOSTS", ",", []string{"https://localhost:5173"}))
	viper.SetDefault("Server.FrontendURL", GetEnv("FRONTEND_URL", "https://localhost:5173"))
	viper.SetDefault("MongoDB.URI", GetEnv("MONGODB_URI", "mongodb://localhost:27017"))
	viper.SetDefault("MongoDB.Database", GetEnv("MONGODB_DATABASE", "sorteos"))
	viper.SetDefault("JWT.Secret", GetEnv("JWT_SECRET", ""))
	viper.SetDefault("JWT.ExpiresIn", GetEnvAsInt("JWT_EXPIRES_IN", 24*60*60))
	viper.SetDefault("Twitch.ClientID", GetEnv("TWITCH_CLIENT_ID", ""))
	viper.SetDefault("Twitch.ClientSecret", GetEnv("TWITCH_CLIENT_SECRET", ""))
	viper.SetDefault("Twitch.BaseURL", "https://api.twitch.tv/helix")
	viper.SetDefault("Twitch.AuthBaseURL", "https://id.twitch.tv")
	viper.SetDefault("Twitch.RedirectURI", GetEnv("TWITCH_REDIRECT_URI", "http://localhost:3000/auth/twitch/callback"))
	viper.SetDefault("Twitch.MockAPI", GetEnvAsBool("TWITCH_MOCK_API", false))
	viper.SetDefault("Cache.Size", GetEnvAsInt("CACHE_SIZE", 128))
	viper.SetDefault("Cache.TTLSeconds", GetEnvAsInt("CACHE_TTL_SECONDS", 60))
	viper.SetDefault("LogLevel", GetEnv("LOG_LEVEL", "info"))
}

// GetEnv reads an environment variable, falling back when unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool reads a boolean environment variable. Unparseable values
// fall back rather than error, matching the rest of the config layer.
func GetEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetEnvAsInt reads an integer environment variable with a fallback.
func GetEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetEnvAsSlice reads a separated-list environment variable, e.g. a
// comma-separated ALLOWED_HOSTS.
func GetEnvAsSlice(key, sep string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return strings.Split(value, sep)
}
