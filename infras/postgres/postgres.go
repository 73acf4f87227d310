package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"studio/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName         = "postgres"
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

var ErrNotConnected = errors.New("database connection not established")

// Connection holds the read replica and primary pools. Writes and anything inside
// a transaction must use Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type target struct {
	role     string
	host     string
	port     string
	user     string
	password string
	name     string
	sslMode  string
}

func (t target) dsn() string {
	query := url.Values{}
	if t.sslMode != "" {
		query.Set("sslmode", t.sslMode)
	}

	return (&url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(t.user, t.password),
		Host:     net.JoinHostPort(t.host, t.port),
		Path:     t.name,
		RawQuery: query.Encode(),
	}).String()
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	retry := retryPolicy{attempts: max(pg.MaxRetry, 1), wait: time.Duration(pg.RetryWaitTime) * time.Second}

	return &Connection{
		Read: retry.connect(target{
			role: "read", host: pg.Read.Host, port: pg.Read.Port, user: pg.Read.Username,
			password: pg.Read.Password, name: pg.Prefix + pg.Read.Name, sslMode: pg.Read.SSLMode,
		}),
		Write: retry.connect(target{
			role: "write", host: pg.Write.Host, port: pg.Write.Port, user: pg.Write.Username,
			password: pg.Write.Password, name: pg.Prefix + pg.Write.Name, sslMode: pg.Write.SSLMode,
		}),
	}
}

type retryPolicy struct {
	attempts int
	wait     time.Duration
}

// connect returns nil when every attempt failed; Ping reports that later.
func (p retryPolicy) connect(t target) *sqlx.DB {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		db, err := sqlx.Connect(driverName, t.dsn())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("role", t.role).Str("host", t.host).Str("db", t.name).Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("role", t.role).
			Str("host", t.host).
			Str("db", t.name).
			Int("attempt", attempt).
			Msg("Failed connecting to database")

		if attempt < p.attempts {
			time.Sleep(p.wait)
		}
	}

	return nil
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Read == nil || c.Write == nil {
		return ErrNotConnected
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Write, c.Read} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
