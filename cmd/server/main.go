package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voicedesk/internal/config"
	"voicedesk/internal/handler"
	"voicedesk/internal/hub"
	"voicedesk/internal/loader"
	"voicedesk/internal/service"
	"voicedesk/internal/store"
	"voicedesk/internal/store/httpapi"
	"voicedesk/internal/store/remote"
	"voicedesk/internal/store/sqlite"
	"voicedesk/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "config file path (overrides discovery)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	var cfg *config.Config
	var path string
	var err error
	if *configPath != "" {
		cfg, path, err = config.LoadFromPath(*configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err), zap.String("path", path))
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		zap.NewExample().Fatal("invalid config", zap.Error(err))
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer logger.Sync()

	if path != "" {
		logger.Info("config loaded", zap.String("path", path))
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err), zap.String("backend", cfg.Backend))
	}
	defer st.Close()
	logger.Info("store ready", zap.String("backend", cfg.Backend))

	eventBus := service.NewEventBus()
	configSvc := service.NewDemoConfigService(st, eventBus, logger)

	sseHub := hub.New(logger)
	go sseHub.Run()
	eventCh := make(chan service.Event, 100)
	eventBus.Subscribe(eventCh)
	go func() {
		for event := range eventCh {
			sseHub.Broadcast(event)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Path != "" {
		if err := applySeed(ctx, cfg.Seed.Path, configSvc, logger); err != nil {
			logger.Fatal("apply seed", zap.Error(err), zap.String("path", cfg.Seed.Path))
		}
		if cfg.Seed.Watch {
			w := watcher.New(cfg.Seed.Path, func() {
				if err := applySeed(ctx, cfg.Seed.Path, configSvc, logger); err != nil {
					logger.Warn("re-apply seed", zap.Error(err))
				}
			}, logger)
			go func() {
				if err := w.Watch(ctx); err != nil && err != context.Canceled {
					logger.Warn("seed watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	mux := http.NewServeMux()
	httpapi.New(st, logger).Register(mux)
	handler.NewConfigHandler(configSvc, logger).Register(mux)
	mux.Handle("GET /events", sseHub)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover(logger),
			handler.CORS,
			handler.Logger(logger),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// applySeed loads the seed file and writes the default aggregate.
func applySeed(ctx context.Context, path string, svc *service.DemoConfigService, logger *zap.Logger) error {
	bundle, err := loader.Load(path)
	if err != nil {
		return err
	}
	_, err = loader.Apply(ctx, svc, bundle, logger)
	return err
}

// openStore builds the configured backend.
func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		return remote.New(remote.Options{
			BaseURL: cfg.Remote.BaseURL,
			Timeout: cfg.Remote.Timeout,
			Logger:  logger,
		}), nil
	default:
		return sqlite.New(sqlite.Options{
			ImagePath:     cfg.Database.Path,
			FlushDebounce: cfg.Database.FlushDebounce,
			Logger:        logger,
		})
	}
}

// buildLogger creates a production zap logger at the configured level.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
