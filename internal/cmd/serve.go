package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"snapgram/internal/activity"
	"snapgram/internal/api"
	intappwrite "snapgram/internal/appwrite"
	"snapgram/internal/cmd/flags"
	"snapgram/internal/comments"
	"snapgram/internal/config"
	"snapgram/internal/core"
	"snapgram/internal/docstore/memory"
	"snapgram/internal/docstore/postgres"
	"snapgram/internal/feed"
	"snapgram/internal/graph"
	"snapgram/internal/identity"
	"snapgram/internal/metrics"
	"snapgram/internal/nats"
	"snapgram/internal/posts"
	"snapgram/internal/profiles"
	"snapgram/internal/storage/local"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Run the API server",
	Flags: []cli.Flag{
		flags.Addr,
		flags.Docstore,
		flags.Storage,
		flags.NATSUrl,
		flags.InitNATS,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, func(cfg *config.Config) []pal.ServiceDef {
			services := []pal.ServiceDef{
				pal.Provide(&core.Config{}),
				pal.Provide(&intappwrite.Client{}),
				pal.Provide[core.AccountProvider](&intappwrite.Accounts{}),

				pal.Provide(&identity.Resolver{}),
				pal.Provide(&graph.Store{}),
				pal.Provide(&feed.Assembler{}),
				pal.Provide(&posts.Manager{}),
				pal.Provide(&comments.Service{}),
				pal.Provide(&profiles.Service{}),

				pal.Provide(&nats.NATS{}),
				pal.Provide(&api.ActivityFeed{}),
				pal.Provide(&api.Server{}),
			}

			switch cfg.Docstore {
			case config.DocstorePostgres:
				services = append(services,
					pal.Provide[core.DocumentStore](&postgres.Store{}),
					pal.Provide(&metrics.Collector{}),
				)
			case config.DocstoreMemory:
				services = append(services, pal.Provide[core.DocumentStore](&memory.Store{}))
			default:
				services = append(services, pal.Provide[core.DocumentStore](&intappwrite.Store{}))
			}

			if cfg.Storage == config.StorageLocal {
				services = append(services,
					pal.Provide[core.FileStorage](&local.Storage{}),
					pal.Provide[core.AvatarProvider](&local.InitialsAvatars{}),
				)
			} else {
				services = append(services,
					pal.Provide[core.FileStorage](&intappwrite.Storage{}),
					pal.Provide[core.AvatarProvider](&intappwrite.Avatars{}),
				)
			}

			if cfg.NATSURL != "" {
				services = append(services, pal.Provide[core.ActivityPublisher](&activity.Publisher{}))
			} else {
				services = append(services, pal.Provide[core.ActivityPublisher](&activity.Noop{}))
			}

			return services
		})
	},
}
