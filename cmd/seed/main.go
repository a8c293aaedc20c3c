package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"curator/internal/config"
	"curator/internal/db"
	"curator/internal/logger"
	"curator/internal/model"
	"curator/internal/repository"
	"curator/internal/seed"
)

const usage = "usage: seed <roles|categories|articles>"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.IsDevelopment())
	slog.SetDefault(log)

	manager, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer manager.Close()

	if err := manager.Migrate(model.All()...); err != nil {
		log.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	gdb := manager.DB()
	seeder := seed.New(
		repository.NewRoleRepository(gdb),
		repository.NewUserRepository(gdb),
		repository.NewCategoryRepository(gdb),
		repository.NewArticleRepository(gdb),
	)

	ctx := context.Background()
	var run func(context.Context) (int, error)
	switch os.Args[1] {
	case "roles":
		run = seeder.Roles
	case "categories":
		run = seeder.Categories
	case "articles":
		run = seeder.Articles
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	created, err := run(ctx)
	if err != nil {
		log.Error("seed failed", slog.String("target", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("seed completed", slog.String("target", os.Args[1]), slog.Int("created", created))
}
