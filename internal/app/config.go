package app

import (
	"os"
	"strings"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	MongoURI string
	MongoDB  string

	JWTSecret   string
	AdminEmails []string

	// PublicCatalog controls whether GET /api/products requires a login.
	PublicCatalog bool
}

func LoadConfig() Config {
	return Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          getEnv("APP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "nailshop"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmails:   splitList(os.Getenv("ADMIN_EMAILS")),
		PublicCatalog: getEnvBool("PUBLIC_CATALOG", true),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvBool(k string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return d
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
