package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pseudomuto/dbmigrate/pkg/cmd"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.NopLogger,
		fx.Supply(
			os.Args,
			&cmd.Version{Version: version, Commit: commit, Timestamp: date},
		),
		fx.Provide(func() context.Context { return ctx }),
		config.Module,
		cmd.Module,
	)

	// The command runs in a start hook, so no start timeout applies here.
	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	sig := <-app.Wait()
	_ = app.Stop(context.Background())
	os.Exit(sig.ExitCode)
}
