package main

import (
	"context"
	"time"

	"verdict/config"
	"verdict/database"
	"verdict/handlers"
	"verdict/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup(true)
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Setup(cfg.IsDevelopment())

	// Context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := handlers.NewRouter(db, cfg)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
