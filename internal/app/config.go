package app

import (
	"time"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	HTTPAddr       string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	httpAddr := utils.GetEnv("HTTP_ADDR", ":8080", log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		HTTPAddr:       httpAddr,
	}
}
