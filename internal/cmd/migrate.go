package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"snapgram/internal/config"
	"snapgram/internal/core"
	"snapgram/internal/docstore/postgres"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Manage the self-hosted document store schema",
	Commands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply pending migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				return runMigration(ctx, c, pal.Provide(&migrationUpRunner{}))
			},
		},
		{
			Name:  "down",
			Usage: "Revert the last migration",
			Action: func(ctx context.Context, c *cli.Command) error {
				return runMigration(ctx, c, pal.Provide(&migrationDownRunner{}))
			},
		},
	},
}

func runMigration(ctx context.Context, c *cli.Command, runner pal.ServiceDef) error {
	return run(ctx, c, func(_ *config.Config) []pal.ServiceDef {
		return []pal.ServiceDef{
			pal.Provide(&core.Config{}),
			pal.Provide(&postgres.Store{}),
			pal.Provide[core.Migrator](&postgres.Migrator{}),
			runner,
		}
	})
}

type migrationUpRunner struct {
	Migrator core.Migrator
}

func (m *migrationUpRunner) Run(ctx context.Context) error {
	return m.Migrator.Up(ctx)
}

type migrationDownRunner struct {
	Migrator core.Migrator
}

func (m *migrationDownRunner) Run(ctx context.Context) error {
	return m.Migrator.Down(ctx)
}
