package config

import "os"

// Server captures process level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	Seed          bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WARDFLOW_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	level := os.Getenv("WARDFLOW_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		LogLevel:      level,
		JWTSigningKey: jwtSigningKey,
		Seed:          os.Getenv("WARDFLOW_SEED") != "false",
	}
}
