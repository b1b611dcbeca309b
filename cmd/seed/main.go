package main

import (
	"context"
	"flag"
	"os"
	"time"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/author/model"
	"catalog-backend/internal/domains/author/seed"
	"catalog-backend/pkg/container"
	"catalog-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	fixturePath := flag.String("file", "fixtures/authors.yaml", "YAML fixture with the authors to insert")
	force := flag.Bool("force", false, "insert even when authors already exist")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if err := run(cfg, *fixturePath, *force); err != nil {
		log.Error().Err(err).Msg("Seeding failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, fixturePath string, force bool) error {
	authors, err := seed.NewLoader(fixturePath).Load()
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !force {
		_, total, err := c.AuthorRepo.GetAll(ctx, model.AuthorFilter{Limit: 1})
		if err != nil {
			return err
		}
		if total > 0 {
			log.Info().Int64("existing", total).Msg("Authors already present, skipping seed (use -force to insert anyway)")
			return nil
		}
	}

	created, err := c.AuthorRepo.CreateMany(ctx, authors)
	if err != nil {
		return err
	}

	for _, a := range created {
		log.Info().
			Str("author_id", a.ID.String()).
			Str("name", a.Name()).
			Str("lifespan", a.Lifespan()).
			Msg("Author seeded")
	}
	log.Info().Int("count", len(created)).Str("file", fixturePath).Msg("Seeding completed")
	return nil
}
