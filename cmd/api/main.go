package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"artfolio-backend/pkg/logger"
)

func main() {
	// .env is for local development; production relies on the real
	// environment.
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}
