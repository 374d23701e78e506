package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mkeller/folio/internal"
	"github.com/mkeller/folio/internal/cache"
	"github.com/mkeller/folio/internal/content"
	"github.com/mkeller/folio/internal/guestbook"
	"github.com/mkeller/folio/internal/mcpserver"
	pkgconfig "github.com/mkeller/folio/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves the portfolio tools over stdio. Logging goes nowhere since
// stdout belongs to the MCP transport.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := content.NewFSStore(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	contentSvc, err := content.NewService(store, logger)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	gbStore, err := guestbook.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init guestbook: %w", err)
	}
	defer gbStore.Close()

	gbSvc := guestbook.NewService(gbStore, cache.NewStore(ctx, cfg.Cache.Guestbook), logger)

	return mcpserver.New(contentSvc, gbSvc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "folio",
		Usage:  "Personal portfolio backend: content API, live presence, and third-party proxies",
		Action: run,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve portfolio content to LLM clients over stdio (MCP)",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
