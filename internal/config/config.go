package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Identity Provider (OIDC)
	// 未設定の場合もプロセスは起動し、認証が必要なエンドポイントが
	// リクエスト単位で設定エラーを返す（フェイルクローズド）。
	OIDCIssuerURL string
	OIDCClientID  string

	// Session
	SessionMaxAge int

	// Geocoding
	// GoogleMapsAPIKeyが未設定の場合、ジオコーディングは設定エラーを返す。
	GoogleMapsAPIKey string
	GeocodeEndpoint  string
	GeocodeTimeout   time.Duration

	// Seed
	// シードエンドポイントを有効化する共有シークレット。未設定なら常に拒否。
	SeedKey string

	// Rate Limit
	RateLimitGeneral  int
	RateLimitMutation int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// defaultSessionMaxAge はセッションCookieのデフォルト有効期間（5日間、秒単位）。
const defaultSessionMaxAge = 5 * 24 * 60 * 60

// defaultGeocodeEndpoint はGoogle Geocoding APIのエンドポイント。
const defaultGeocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.OIDCIssuerURL = os.Getenv("OIDC_ISSUER_URL")
	cfg.OIDCClientID = os.Getenv("OIDC_CLIENT_ID")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", defaultSessionMaxAge)
	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.GeocodeEndpoint = getEnvString("GEOCODE_ENDPOINT", defaultGeocodeEndpoint)
	cfg.GeocodeTimeout = getEnvDuration("GEOCODE_TIMEOUT", 10*time.Second)
	cfg.SeedKey = os.Getenv("SEED_KEY")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitMutation = getEnvInt("RATE_LIMIT_MUTATION", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// IdentityConfigured はIDプロバイダーの資格情報が設定済みかを返す。
func (c *Config) IdentityConfigured() bool {
	return c.OIDCIssuerURL != "" && c.OIDCClientID != ""
}

// GeocodeConfigured はジオコーディング用のAPIキーが設定済みかを返す。
func (c *Config) GeocodeConfigured() bool {
	return c.GoogleMapsAPIKey != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
