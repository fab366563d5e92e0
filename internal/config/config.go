package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AuthBackend は認証バックエンドの種類を表す。
type AuthBackend string

const (
	// AuthBackendJWT は共有シークレットによる自己発行JWT検証を示す。
	AuthBackendJWT AuthBackend = "jwt"
	// AuthBackendOIDC は外部IdPへの委譲検証（OIDC IDトークン）を示す。
	AuthBackendOIDC AuthBackend = "oidc"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	MongoURI     string
	DatabaseName string

	// Auth
	AuthBackend  AuthBackend
	JWTSecret    string
	TokenTTL     time.Duration
	OIDCIssuer   string
	OIDCAudience string

	// Rate Limit
	RateLimitGeneral int

	// Logging
	LogLevel string

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DatabaseName = getEnvString("DATABASE_NAME", "smartdeals")
	cfg.AuthBackend = AuthBackend(getEnvString("AUTH_BACKEND", string(AuthBackendJWT)))
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", time.Hour)
	cfg.OIDCIssuer = os.Getenv("OIDC_ISSUER")
	cfg.OIDCAudience = os.Getenv("OIDC_AUDIENCE")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate はフィールド間の整合性を検証する。
// OIDCバックエンド選択時はissuerとaudienceが必須となる。
func (c *Config) validate() error {
	switch c.AuthBackend {
	case AuthBackendJWT:
		// JWT_SECRETは必須チェック済みのため追加検証なし
	case AuthBackendOIDC:
		if c.OIDCIssuer == "" {
			return fmt.Errorf("OIDC_ISSUER is required when AUTH_BACKEND=oidc")
		}
		if c.OIDCAudience == "" {
			return fmt.Errorf("OIDC_AUDIENCE is required when AUTH_BACKEND=oidc")
		}
	default:
		return fmt.Errorf("unsupported AUTH_BACKEND: %q (must be jwt or oidc)", c.AuthBackend)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %v", c.TokenTTL)
	}

	return nil
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
