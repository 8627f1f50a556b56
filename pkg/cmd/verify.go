package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/docker"
	"github.com/pseudomuto/dbmigrate/pkg/executor"
	"github.com/urfave/cli/v3"
)

// verify creates the verify command, which applies every script to a
// throwaway database and then checks that a second run has nothing to do.
//
// ClickHouse and Postgres projects run against a container started with
// testcontainers. SQLite projects use a temporary database file.
//
// Example usage:
//
//	# Verify the project against the default image version
//	dbmigrate verify
//
//	# Verify against a specific Postgres release
//	dbmigrate verify --image-version 16
func verify(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "verify",
		Usage:  "Apply all scripts to a throwaway database",
		Before: requireConfig(cfg),
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{
				Name:  "image-version",
				Usage: "the database image version to run the scripts against",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conn, cleanup, err := throwawayDatabase(ctx, cfg, cmd.String("image-version"))
			if err != nil {
				return err
			}
			defer cleanup()

			l, err := openLedger(ctx, conn, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			exec, err := newExecutor(l, cfg)
			if err != nil {
				return err
			}

			w := output(cmd)
			results, err := exec.Run(ctx, executor.Options{})
			if err != nil {
				return errors.Wrap(err, "failed to execute migrations")
			}

			if err := reportResults(w, results, diffFormat(cmd, cfg), cfg); err != nil {
				return err
			}

			rec, err := exec.Reconcile(ctx)
			if err != nil {
				return err
			}

			if idx := rec.Inconsistent(); len(idx) > 0 {
				return errors.Errorf("%s after applying every migration", rec.Entry(idx[0]).Describe(rec.State(idx[0])))
			}

			fmt.Fprintf(w, "✅ Verified %d migrations against a fresh %s database.\n", rec.Len(), conn.Dialect)
			return nil
		},
	}
}

// throwawayDatabase creates an empty database for the configured dialect. The
// returned func releases it.
func throwawayDatabase(ctx context.Context, cfg *config.Config, version string) (connection, func(), error) {
	conn := connection{Dialect: cfg.Dialect, Schema: cfg.Schema}

	if docker.Supports(cfg.Dialect) {
		container := docker.NewWithOptions(docker.DockerOptions{
			Database: docker.Database(cfg.Dialect),
			Version:  version,
		})

		slog.Info("Starting database container", "dialect", cfg.Dialect, "version", version)
		if err := container.Start(ctx); err != nil {
			return conn, nil, errors.Wrap(err, "failed to start container")
		}

		stop := func() {
			if err := container.Stop(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("Failed to stop container", "err", err)
			}
		}

		dsn, err := container.GetDSN(ctx)
		if err != nil {
			stop()
			return conn, nil, err
		}

		conn.URL = dsn
		return conn, stop, nil
	}

	if cfg.Dialect != "sqlite" {
		return conn, nil, errors.Errorf("verify does not support the %s dialect", cfg.Dialect)
	}

	dir, err := os.MkdirTemp("", "dbmigrate-verify-")
	if err != nil {
		return conn, nil, errors.Wrap(err, "failed to create temp dir")
	}

	// sqlite has no schemas beyond main
	conn.Schema = ""
	conn.URL = "file:" + filepath.Join(dir, "verify.db")
	return conn, func() { _ = os.RemoveAll(dir) }, nil
}
