package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"studio/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

// Direction names one migration command accepted by cmd/migrate.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionStepUp  Direction = "step-up"
	DirectionDrop    Direction = "drop"
	DirectionVersion Direction = "version"
)

var ErrUnknownDirection = errors.New("unknown migration direction")

var directions = map[Direction]func(*migrate.Migrate) error{
	DirectionUp:     (*migrate.Migrate).Up,
	DirectionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	DirectionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	DirectionDrop:   (*migrate.Migrate).Down,
	DirectionVersion: func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	},
}

// ParseDirection validates a command line argument.
func ParseDirection(value string) (Direction, error) {
	direction := Direction(value)
	if _, ok := directions[direction]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, value)
	}

	return direction, nil
}

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// ConnectionString targets the write database and the configured migrations table.
func ConnectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&x-migrations-table=%s",
		write.Username,
		write.Password,
		net.JoinHostPort(write.Host, write.Port),
		getDBName(config, write.Name),
		write.SSLMode,
		config.DB.Postgres.MigrationTable,
	)
}

func Run(config *config.Config, direction Direction) error {
	action, ok := directions[direction]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Error().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
		}
	}()

	if err := action(mig); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("direction", string(direction)).Msg("Database schema already up to date")

			return nil
		}

		return fmt.Errorf("error running %s migration: %w", direction, err)
	}

	log.Info().Str("direction", string(direction)).Msg("Database migration completed successfully")

	return nil
}
