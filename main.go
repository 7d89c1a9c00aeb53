package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonexchange_backend/config"
	"phonexchange_backend/internal/ws"
	"phonexchange_backend/routes"
	"phonexchange_backend/services"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"
)

func main() {
	reset := flag.Bool("reset", false, "drop and recreate SQL tables before seeding (postgres only)")
	issueToken := flag.String("issue-admin-token", "", "print an admin JWT for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of tokens printed by -issue-admin-token")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	if *issueToken != "" {
		token, err := utils.IssueAdminToken(cfg.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			log.Fatal("Failed to issue token: ", err)
		}
		fmt.Println(token)
		return
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *reset); err != nil {
		logger.WithError(err).Error("server stopped with error", nil)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger, reset bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger, reset)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close store", nil)
		}
	}()

	if cfg.SeedOnStart {
		catalog, err := config.DefaultCatalog()
		if err != nil {
			return err
		}
		if _, err := config.SeedCatalog(ctx, store, catalog, logger); err != nil {
			return err
		}
	}

	var notifiers []services.LeadNotifier
	if cfg.SNSTopicARN != "" {
		sns, err := services.NewSNSNotifierFromEnv(ctx, cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, sns)
		logger.Info("sns lead notifications enabled", map[string]interface{}{"topic_arn": cfg.SNSTopicARN})
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	app := routes.NewApp(routes.Dependencies{
		Store:       store,
		Log:         logger,
		Hub:         hub,
		Notifiers:   notifiers,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins(),
		AccessLog:   true,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", map[string]interface{}{
			"addr":  cfg.Addr(),
			"store": cfg.StoreDriver,
		})
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger utils.Logger, reset bool) (storage.Store, error) {
	var store storage.Store

	switch cfg.StoreDriver {
	case config.StorePostgres:
		sqlStore, err := storage.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		migrate := config.Migrate
		if reset {
			migrate = config.ResetAndMigrate
		}
		if err := migrate(sqlStore.DB, logger); err != nil {
			sqlStore.Close()
			return nil, err
		}
		store = sqlStore
	case config.StoreMongo:
		if reset {
			return nil, errors.New("-reset is only supported with the postgres store")
		}
		mongoStore, err := storage.OpenMongo(ctx, cfg.MongoURL, cfg.DBName)
		if err != nil {
			return nil, err
		}
		store = mongoStore
	default:
		store = storage.NewMemoryStore()
	}

	if cfg.RedisURL == "" {
		return store, nil
	}

	rdb, err := storage.NewRedisClient(cfg.RedisURL)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("catalog cache enabled", map[string]interface{}{"ttl": cfg.CacheTTL.String()})
	return storage.NewCachedStore(store, rdb, cfg.CacheTTL, logger), nil
}
