package app

import (
	"time"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/utils"
)

type Config struct {
	JWTSecretKey        string
	VisitorCookieTTL    time.Duration
	SeedPath            string
	GeneratorConfigPath string
	MinVotes            int
	ExclusionWindow     int
	Environment         string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	cookieTTLSeconds := utils.GetEnvAsInt("VISITOR_COOKIE_TTL", 30*24*3600, log)
	seedPath := utils.GetEnv("SEED_PATH", "", log)
	generatorConfigPath := utils.GetEnv("GENERATOR_CONFIG_PATH", "", log)
	minVotes := utils.GetEnvAsInt("MIN_VOTES", 1, log)
	exclusionWindow := utils.GetEnvAsInt("EXCLUSION_WINDOW", 20, log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	return Config{
		JWTSecretKey:        jwtSecretKey,
		VisitorCookieTTL:    time.Duration(cookieTTLSeconds) * time.Second,
		SeedPath:            seedPath,
		GeneratorConfigPath: generatorConfigPath,
		MinVotes:            minVotes,
		ExclusionWindow:     exclusionWindow,
		Environment:         environment,
	}
}
