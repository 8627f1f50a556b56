// Package docker runs throwaway database servers in Docker.
//
// Containers back the verify command, which replays every migration against
// an empty database, and the integration tests of the ledger.
//
// # Usage Example
//
//	container := docker.New(docker.Postgres)
//
//	ctx := context.Background()
//	defer container.Stop(ctx)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	dsn, _ := container.GetDSN(ctx)
//	l, _ := ledger.Open(ctx, ledger.Options{Dialect: container.Dialect(), DSN: dsn})
//	defer l.Close()
package docker
