package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "authgate/docs" // swagger docs
	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/database"
	httpServer "authgate/internal/http"
	"authgate/internal/logging"
	"authgate/internal/ratelimit"
	"authgate/internal/user"
)

// @title           authgate
// @version         1.0
// @description     Bearer-token authentication service with user registration, login, and protected profile access.

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"codec", cfg.Token.Codec,
	)

	store, closeStore, err := initStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	codec, err := initCodec(cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	limiter, err := initLimiter(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	authService := auth.NewService(store, auth.NewSHA512Hasher(), codec)
	authHandler := auth.NewHandler(authService, limiter, logger)
	authMiddleware := auth.NewMiddleware(authService)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStore builds the configured user store and returns a close
// function for whatever resources it holds.
func initStore(cfg config.StoreConfig) (user.Store, func(), error) {
	switch cfg.Driver {
	case config.StoreFile:
		store, err := user.OpenFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case config.StoreSQLite:
		db, err := database.NewSQLiteDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store := user.NewBunStore(db)
		if err := store.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	case config.StorePostgres:
		db, err := database.NewPostgresDB(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		store := user.NewBunStore(db)
		if err := store.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func initCodec(cfg config.TokenConfig) (auth.TokenCodec, error) {
	switch cfg.Codec {
	case config.CodecJWT:
		return auth.NewJWTCodec(cfg.Secret, cfg.TTL), nil
	case config.CodecPaseto:
		return auth.NewPasetoCodec(cfg.Secret, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown token codec %q", cfg.Codec)
	}
}

// initLimiter connects to Redis when configured; otherwise rate
// limiting is disabled.
func initLimiter(cfg config.RedisConfig, logger *logging.Logger) (*ratelimit.Limiter, error) {
	if !cfg.Enabled() {
		logger.Info("rate limiting disabled: no Redis host configured")
		return ratelimit.NewDisabledLimiter(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return ratelimit.NewLimiter(client), nil
}
