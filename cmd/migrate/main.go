package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"verdict/logger"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	godotenv.Load()
	logger.Setup(true)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer conn.Close(ctx)

	migrationsDir := "./database/migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations directory")
	}

	var sqlFiles []string
	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		log.Info().Str("file", file).Msg("running migration")

		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to read migration")
		}

		if _, err := conn.Exec(ctx, string(content)); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("migration failed")
		}
	}

	log.Info().Int("count", len(sqlFiles)).Msg("all migrations completed")
}
