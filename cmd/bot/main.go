package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bunker/internal/admin"
	"bunker/internal/cards"
	"bunker/internal/config"
	"bunker/internal/db"
	"bunker/internal/game"
	"bunker/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is not set")
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	catalog, err := cards.NewCatalog(ctx, conn)
	if err != nil {
		return fmt.Errorf("loading card catalog: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("connecting to telegram: %w", err)
	}
	log.Printf("authorized on account username=%s", api.Self.UserName)

	var persister game.Persister = game.NewMemoryPersister()
	if conn != nil {
		persister = game.NewGormPersister(conn)
	}
	engine := game.New(cfg, catalog, telegram.NewMessenger(api, cfg.ImagesDir), persister)
	defer engine.Close()

	if _, err := engine.Restore(ctx); err != nil {
		log.Printf("restore games failed error=%v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	handler := telegram.NewHandler(api, engine, catalog, cfg.AllowedChatID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("bot polling started")
		return handler.Run(gctx, updates)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("stopping bot polling")
		api.StopReceivingUpdates()
		return nil
	})
	if cfg.AdminAddr != "" {
		srv := admin.New(engine, catalog, cfg.AdminToken, cfg.AdminOrigins...)
		g.Go(func() error {
			return srv.Run(gctx, cfg.AdminAddr)
		})
	}
	return g.Wait()
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is not set, games are kept in memory only")
		return nil, nil
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.ConfigurePool(conn, db.PoolSettings{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime(),
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime(),
	}); err != nil {
		return nil, fmt.Errorf("configuring database pool: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return conn, nil
}
