// Command migrate manages the storefront schema and loads the dev catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/angelmondragon/tvshop-backend/pkg/db"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
}

type command struct {
	needsDB bool
	devOnly bool
	run     func(ctx context.Context, env runEnv) error
}

type runEnv struct {
	opts   options
	cfg    *config.Config
	logg   *logger.Logger
	client *db.Client
}

var commands = map[string]command{
	"create":   {run: runCreate},
	"validate": {run: runValidate},
	"up":       {needsDB: true, run: gooseCommand("up")},
	"down":     {needsDB: true, run: gooseCommand("down")},
	"redo":     {needsDB: true, run: gooseCommand("redo")},
	"status":   {needsDB: true, run: gooseCommand("status")},
	"version":  {needsDB: true, run: runVersion},
	"seed":     {needsDB: true, devOnly: true, run: runSeed},
}

func main() {
	os.Exit(run())
}

func run() int {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	cmdName := flag.String("cmd", "up", "one of: "+strings.Join(commandNames(), "|"))
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cmd, ok := commands[*cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown -cmd %q (want %s)\n", *cmdName, strings.Join(commandNames(), "|"))
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "resource not working: config", err)
		return 1
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmdName,
		"dir": opts.dir,
	})

	if cmd.devOnly && !cfg.App.IsDev() {
		logg.Warn(ctx, "migrate.refused_outside_dev")
		return 1
	}

	env := runEnv{opts: opts, cfg: cfg, logg: logg}
	if cmd.needsDB {
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "resource not working: database", err)
			return 1
		}
		defer client.Close()
		env.client = client
	}

	if err := cmd.run(ctx, env); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		return 1
	}
	logg.Info(ctx, "migrate.done")
	return 0
}

func runCreate(_ context.Context, env runEnv) error {
	if env.opts.name == "" {
		return fmt.Errorf("missing -name for create")
	}
	path, err := migrate.CreateSQLMigration(env.opts.dir, env.opts.name)
	if err != nil {
		return err
	}
	fmt.Println("created migration:", path)
	return nil
}

func runValidate(_ context.Context, env runEnv) error {
	return migrate.ValidateDir(env.opts.dir)
}

// gooseCommand runs a schema command. SQLite databases have no goose history,
// so "up" falls back to GORM auto-migration there and the rest are refused.
func gooseCommand(name string) func(context.Context, runEnv) error {
	return func(ctx context.Context, env runEnv) error {
		if env.cfg.DB.IsSQLite() {
			if name != "up" {
				return fmt.Errorf("%s is not supported on sqlite", name)
			}
			return migrate.AutoMigrateModels(env.client)
		}
		sqlDB, err := env.client.DB().DB()
		if err != nil {
			return fmt.Errorf("sql handle: %w", err)
		}
		return migrate.Run(ctx, sqlDB, env.opts.dir, name)
	}
}

func runVersion(ctx context.Context, env runEnv) error {
	if env.opts.version == "" {
		return fmt.Errorf("missing -version for version")
	}
	if env.cfg.DB.IsSQLite() {
		return fmt.Errorf("version is not supported on sqlite")
	}
	sqlDB, err := env.client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	return migrate.MigrateToVersion(ctx, sqlDB, env.opts.dir, env.opts.version)
}

func runSeed(ctx context.Context, env runEnv) error {
	report, err := migrate.SeedCatalog(ctx, env.client.DB(), migrate.DevCatalog)
	if err != nil {
		return err
	}
	env.logg.Info(env.logg.WithFields(ctx, map[string]any{
		"brands":      report.Brands,
		"televisions": report.Televisions,
		"stock_rows":  report.StockRows,
	}), "migrate.seeded")
	return nil
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
