package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the application.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	CORSAllowedOrigins []string

	// Archive export to Cloudflare R2. The R2_* values are required only
	// when ARCHIVE_ENABLED is true; without them completed matches simply
	// are not exported.
	ArchiveEnabled    bool
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally loading
// a .env file first (useful for local development).
func Load() (*Config, error) {
	// A missing .env file is not fatal.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS is set but contains no origins")
		}
	}

	archiveEnabled := false
	if raw := os.Getenv("ARCHIVE_ENABLED"); raw != "" {
		archiveEnabled, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ARCHIVE_ENABLED environment variable: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		CORSAllowedOrigins: origins,
		ArchiveEnabled:     archiveEnabled,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.ArchiveEnabled {
		required := []struct {
			name  string
			value string
		}{
			{"R2_ACCOUNT_ID", cfg.R2AccountID},
			{"R2_ACCESS_KEY_ID", cfg.R2AccessKeyID},
			{"R2_SECRET_ACCESS_KEY", cfg.R2SecretAccessKey},
			{"R2_BUCKET_NAME", cfg.R2BucketName},
			{"R2_PUBLIC_BASE_URL", cfg.R2PublicBaseURL},
		}
		var missing []string
		for _, v := range required {
			if v.value == "" {
				missing = append(missing, v.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("ARCHIVE_ENABLED is true but %s not set", strings.Join(missing, ", "))
		}
	}

	return cfg, nil
}
