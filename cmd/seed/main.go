package main

import (
	"context"

	"studio/config"
	"studio/di"
	"studio/internal/domains/user/model/dto"
	"studio/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	req := dto.CreateAdminRequest{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}

	created, err := di.InitializeSeeder().SeedAdmin(context.Background(), req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin")
	}

	log.Info().Bool("created", created).Str("email", req.Email).Msg("Admin seed finished")
}
