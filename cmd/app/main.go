package main

import (
	"context"
	"studio/config"
	"studio/di"
	_ "studio/docs"
	"studio/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
)

const otelShutdownTimeout = 5 * time.Second

//	@title						Studio API
//	@version					1.0
//	@description				Photography studio booking API.
//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	app := di.InitializeApp()

	defer func() {
		if err := app.Database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database pools")
		}
	}()

	if err := app.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer app.Scheduler.Stop()

	defer func() {
		if err := app.Publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close event publisher")
		}
	}()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()

		if err := app.Otel.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}()

	app.HTTP.Serve()
}
