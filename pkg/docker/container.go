package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// ClickHouse runs clickhouse/clickhouse-server
	ClickHouse Database = "clickhouse"

	// Postgres runs the official postgres image
	Postgres Database = "postgres"

	defaultClickHouseVersion = "25.7"
	defaultPostgresVersion   = "17"
	credentials              = "dbmigrate"
)

type (
	// Database identifies the database server to run. Its value matches the
	// ledger dialect name.
	Database string

	// DockerOptions represents options for running a database in Docker
	DockerOptions struct {
		// Database selects the server image (default: postgres)
		Database Database

		// Version is the image tag to run
		Version string
	}

	// Container manages a throwaway database container
	Container struct {
		options DockerOptions
		ch      *clickhouse.ClickHouseContainer
		pg      *postgres.PostgresContainer
	}
)

// Supports reports whether a container can be started for the dialect.
func Supports(dialect string) bool {
	switch Database(dialect) {
	case ClickHouse, Postgres:
		return true
	default:
		return false
	}
}

// New creates a container for db with the default version.
//
// Example:
//
//	container := docker.New(docker.Postgres)
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New(db Database) *Container {
	return NewWithOptions(DockerOptions{Database: db})
}

// NewWithOptions creates a container with custom options.
func NewWithOptions(opts DockerOptions) *Container {
	if opts.Database == "" {
		opts.Database = Postgres
	}

	return &Container{options: opts}
}

// Dialect returns the ledger dialect matching the running database.
func (c *Container) Dialect() string {
	return string(c.options.Database)
}

// Start starts the database container and waits until it accepts connections.
func (c *Container) Start(ctx context.Context) error {
	if c.IsRunning() {
		return errors.New("container is already running")
	}

	switch c.options.Database {
	case ClickHouse:
		return c.startClickHouse(ctx)
	case Postgres:
		return c.startPostgres(ctx)
	default:
		return errors.Errorf("unsupported database: %s", c.options.Database)
	}
}

func (c *Container) startClickHouse(ctx context.Context) error {
	version := c.options.Version
	if version == "" {
		version = defaultClickHouseVersion
	}

	container, err := clickhouse.Run(ctx,
		fmt.Sprintf("clickhouse/clickhouse-server:%s-alpine", version),
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		clickhouse.WithDatabase(credentials),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.
				NewHTTPStrategy("/").
				WithPort(nat.Port("8123/tcp")).
				WithStatusCodeMatcher(func(status int) bool {
					return status == 200
				}),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start ClickHouse container")
	}

	c.ch = container
	return nil
}

func (c *Container) startPostgres(ctx context.Context) error {
	version := c.options.Version
	if version == "" {
		version = defaultPostgresVersion
	}

	container, err := postgres.Run(ctx,
		fmt.Sprintf("postgres:%s-alpine", version),
		postgres.WithDatabase(credentials),
		postgres.WithUsername(credentials),
		postgres.WithPassword(credentials),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start Postgres container")
	}

	c.pg = container
	return nil
}

// Stop stops and removes the container
func (c *Container) Stop(ctx context.Context) error {
	var err error
	switch {
	case c.ch != nil:
		err = c.ch.Terminate(ctx)
	case c.pg != nil:
		err = c.pg.Terminate(ctx)
	default:
		return nil // Already stopped
	}

	c.ch, c.pg = nil, nil
	if err != nil {
		return errors.Wrapf(err, "failed to stop %s container", c.options.Database)
	}

	return nil
}

// GetDSN returns the connection string for the running database
func (c *Container) GetDSN(ctx context.Context) (string, error) {
	var (
		dsn string
		err error
	)

	switch {
	case c.ch != nil:
		dsn, err = c.ch.ConnectionString(ctx)
	case c.pg != nil:
		dsn, err = c.pg.ConnectionString(ctx, "sslmode=disable")
	default:
		return "", errors.New("container is not running")
	}

	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return dsn, nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.ch != nil || c.pg != nil
}
