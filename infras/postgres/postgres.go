package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"
	"villa/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Without a replica both point at the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type node struct {
	role     string
	host     string
	port     string
	username string
	password string
	name     string
	timezone string
	sslMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	write := connect(node{
		role:     "write",
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		username: pg.Write.Username,
		password: pg.Write.Password,
		name:     getDBName(config, pg.Write.Name),
		timezone: pg.Write.Timezone,
		sslMode:  pg.Write.SSLMode,
	}, pg.MaxRetry, pg.RetryWaitTime)

	if pg.Read.Host == "" {
		log.Info().Msg("No read replica configured, reads use the primary")

		return &Connection{Read: write, Write: write}
	}

	read := connect(node{
		role:     "read",
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		username: pg.Read.Username,
		password: pg.Read.Password,
		name:     getDBName(config, pg.Read.Name),
		timezone: pg.Read.Timezone,
		sslMode:  pg.Read.SSLMode,
	}, pg.MaxRetry, pg.RetryWaitTime)

	return &Connection{Read: read, Write: write}
}

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

func (n node) dsn() string {
	query := url.Values{}
	query.Set("sslmode", n.sslMode)

	if n.timezone != "" {
		query.Set("timezone", n.timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.username, n.password),
		Host:     net.JoinHostPort(n.host, n.port),
		Path:     n.name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries up to maxRetry times and exits the process when the database never answers.
func connect(n node, maxRetry, waitTime int) *sqlx.DB {
	logger := log.With().
		Str("name", n.role).
		Str("host", n.host).
		Str("port", n.port).
		Str("dbName", n.name).
		Logger()

	var lastErr error

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", n.dsn())
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return sqlDB
		}

		lastErr = err

		logger.Error().Err(err).Int("attempt", retry+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	logger.Fatal().Err(lastErr).Msg("Database unreachable")

	return nil
}
