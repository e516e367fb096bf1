package app

import (
	"strings"
	"time"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/utils"
)

type Config struct {
	Mode         string
	Port         string
	AllowOrigins []string

	JWTSecret string
	TokenTTL  time.Duration

	VectorDimension int

	RecommendCacheTTL time.Duration
	SearchRateLimit   int
	SearchRateWindow  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Mode:         utils.GetEnv("GIN_MODE", "debug", log),
		Port:         utils.GetEnv("PORT", "8080", log),
		AllowOrigins: splitOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)),

		JWTSecret: utils.GetEnv("JWT_SECRET", "dev-secret-change-me", log),
		TokenTTL:  time.Duration(utils.GetEnvAsInt("TOKEN_TTL_MINUTES", 60*24, log)) * time.Minute,

		VectorDimension: utils.GetEnvAsInt("VECTOR_DIMENSION", 1536, log),

		RecommendCacheTTL: time.Duration(utils.GetEnvAsInt("RECOMMEND_CACHE_TTL_SECONDS", 300, log)) * time.Second,
		SearchRateLimit:   utils.GetEnvAsInt("SEARCH_RATE_LIMIT", 30, log),
		SearchRateWindow:  time.Duration(utils.GetEnvAsInt("SEARCH_RATE_WINDOW_SECONDS", 60, log)) * time.Second,
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
