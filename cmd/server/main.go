package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"curator/docs"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"curator/internal/auth"
	"curator/internal/cache"
	"curator/internal/config"
	"curator/internal/db"
	"curator/internal/handler"
	"curator/internal/logger"
	"curator/internal/metrics"
	"curator/internal/model"
	"curator/internal/repository"
	"curator/internal/router"
	"curator/internal/service"
	"curator/internal/summarizer"
)

const (
	summaryCacheTTL = time.Hour
	shutdownTimeout = 10 * time.Second
)

// @title Curator API
// @version 1.0
// @description Content API with articles, categories, JWT authentication and an AI article analyst.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.IsDevelopment())
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer manager.Close()

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		manager.Reset(append(model.All(), "article_tags")...)
	}
	if err := manager.Migrate(model.All()...); err != nil {
		return err
	}

	gdb := manager.DB()
	userRepo := repository.NewUserRepository(gdb)
	roleRepo := repository.NewRoleRepository(gdb)
	categoryRepo := repository.NewCategoryRepository(gdb)
	articleRepo := repository.NewArticleRepository(gdb)

	if created, err := roleRepo.Ensure(ctx, model.RoleAdmin, model.RoleUser); err != nil {
		return err
	} else if created > 0 {
		log.Info("roles seeded", slog.Int("created", created))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	method, err := auth.ParseAlgorithm(cfg.JWTAlgorithm)
	if err != nil {
		return err
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret,
		auth.WithSigningMethod(method),
		auth.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	var generator summarizer.Generator
	if cfg.GeminiAPIKey != "" {
		genAI, err := summarizer.NewGenAI(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		generator = genAI
	} else {
		log.Info("GEMINI_API_KEY not set, AI agent disabled")
	}

	userService := service.NewUserService(userRepo, hasher)
	authService := service.NewAuthService(userRepo, roleRepo, hasher, jwtService, tokenStore)
	articleService := service.NewArticleService(articleRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, articleRepo, cacheClient)
	roleService := service.NewRoleService(roleRepo, cacheClient)
	summaryService := service.NewSummaryService(articleRepo, generator, summaryCacheTTL)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, router.Deps{
		Config:  cfg,
		Logger:  log,
		Gate:    auth.NewGate(jwtService, userRepo, tokenStore),
		Metrics: metrics.New("curator"),
		DB:      manager,
	}, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		AdminUsers: handler.NewAdminUserHandler(userService),
		Articles:   handler.NewArticleHandler(articleService),
		Categories: handler.NewCategoryHandler(categoryService),
		Roles:      handler.NewRoleHandler(roleService),
		Agent:      handler.NewAgentHandler(summaryService),
	})

	if cfg.DocsEnabled {
		log.Info("swagger documentation available", slog.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", slog.String("addr", addr), slog.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
