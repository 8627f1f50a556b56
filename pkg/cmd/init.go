package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/project"
	"github.com/urfave/cli/v3"
)

// initCmd creates the init command for creating a new project in the
// current directory.
//
// Existing files are never overwritten, so init can safely be run on an
// existing project to restore missing folders.
//
// Example usage:
//
//	# Create a project using sqlite
//	dbmigrate init
//
//	# Create a project for a postgres database
//	dbmigrate init --dialect postgres --url postgres://localhost/app
func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dialect",
				Usage: "the database dialect written to a new config file",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "the connection string written to a new config file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := project.New(".")
			err := p.Initialize(project.InitOptions{
				Dialect: cmd.String("dialect"),
				URL:     cmd.String("url"),
			})
			if err != nil {
				return err
			}

			w := output(cmd)
			fmt.Fprintf(w, "Initialized project using %s\n", consts.DefaultConfigFile)
			fmt.Fprintf(w, "  dialect:    %s\n", p.Config().Dialect)
			fmt.Fprintf(w, "  migrations: %s\n", p.ScriptsDir()+"/"+consts.MigrationsFolder)
			return nil
		},
	}
}
