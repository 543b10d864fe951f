package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notion2hugo/internal"
	"github.com/starford/notion2hugo/internal/catalog"
	pkgconfig "github.com/starford/notion2hugo/pkg/config"
)

// loadConfig builds the configuration from defaults, the optional config
// file and finally the flags, which win.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.ReadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("posts-dir") {
		cfg.Hugo.PostsDir = cmd.String("posts-dir")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	return cfg, nil
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("notion-token") {
		cfg.Notion.Token = cmd.String("notion-token")
	}
	if cmd.IsSet("notion-root-block") {
		cfg.Notion.RootBlock = cmd.String("notion-root-block")
	}
	if cmd.IsSet("workers") {
		cfg.App.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("timeout") {
		cfg.Notion.Timeout = cmd.Duration("timeout")
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runPosts(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	filter := catalog.AllPosts
	switch {
	case cmd.Bool("drafts"):
		filter = catalog.OnlyDrafts
	case cmd.Bool("published"):
		filter = catalog.OnlyPublished
	}
	return internal.ListPosts(ctx, os.Stdout, filter,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr))
}

// commonFlags returns fresh instances of the flags every command accepts.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to an optional config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "posts-dir",
			Aliases: []string{"p"},
			Usage:   "Hugo posts folder (must exist)",
			Sources: cli.EnvVars("HUGO_POSTS_FOLDER"),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "notion2hugo",
		Usage: "Mirror Notion pages into Hugo Markdown posts",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Write every titled page under the root block as a post",
				Action: runSync,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "notion-token",
						Aliases: []string{"n"},
						Usage:   "Notion integration token",
						Sources: cli.EnvVars("NOTION_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "notion-root-block",
						Aliases: []string{"r"},
						Usage:   "Notion block or page whose children are the posts",
						Sources: cli.EnvVars("NOTION_ROOT_BLOCK"),
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Posts written concurrently",
						Sources: cli.EnvVars("NOTION2HUGO_WORKERS"),
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Timeout of a single Notion API request",
					},
				),
			},
			{
				Name:   "posts",
				Usage:  "List the posts already in the posts folder",
				Action: runPosts,
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "drafts",
						Usage: "Only show drafts",
					},
					&cli.BoolFlag{
						Name:  "published",
						Usage: "Only show published posts",
					},
				),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
