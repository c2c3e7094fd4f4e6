package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"card-casino-go/internal/config"
	"card-casino-go/internal/database"
	"card-casino-go/internal/deck"
	"card-casino-go/internal/game"
	"card-casino-go/internal/handlers"
	"card-casino-go/internal/middleware"
	"card-casino-go/internal/session"
	"card-casino-go/internal/tracing"
	"card-casino-go/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "card-casino-go"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := configureLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		PrettyPrint: cfg.IsDevelopment(),
		Exporter:    cfg.TraceExporter,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.WithError(err).Fatal("tracing init")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracing shutdown")
		}
	}()

	db, err := database.OpenAndMigrate(ctx, cfg.DatabasePath, log)
	if err != nil {
		log.WithError(err).Fatal("db open/migrate")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("db close")
		}
	}()

	provider, err := newDeckProvider(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("deck provider")
	}

	hubRef := websocket.NewHubRef(websocket.NewHub())
	go runHub(hubRef, log)

	handlers.SetWebSocketOriginPolicy(cfg.IsDevelopment(), cfg.DevWebSocketsAllowAll, cfg.WSAllowedOrigins)
	handlers.SetHubProvider(hubRef.Get)

	mgr := session.NewManager(session.Config{
		Provider: provider,
		Stakes: map[string]int{
			game.TypeBlackjack: cfg.Stakes["blackjack"],
			game.TypePoker:     cfg.Stakes["poker"],
			game.TypeHighLow:   cfg.Stakes["highlow"],
		},
		DealerDelay: cfg.DealerStepDelay,
		Logger:      log,
		Publisher:   handlers.SessionPublisher(),
		Recorder:    session.SQLRecorder{DB: db},
	})
	go mgr.RunSweeper(ctx, time.Minute, cfg.SessionIdle)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handlers.NewRouter(mgr, db, cfg, hubRef.Get,
		otelgin.Middleware(serviceName),
		middleware.RequestLogger(log),
	)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "deck_provider": cfg.DeckProvider}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	if h, ok := hubRef.Get(); ok {
		h.Stop()
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
}

func configureLogging(cfg config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

func newDeckProvider(cfg config.Config, log logrus.FieldLogger) (deck.Provider, error) {
	if cfg.DeckProvider == config.DeckProviderLocal {
		return deck.NewLocal(uint64(cfg.DeckSeed))
	}
	return deck.NewClient(cfg.DeckAPIBase, cfg.DeckTimeout, log), nil
}

// runHub keeps a hub running, replacing it after a panic. It returns once a hub stops normally.
func runHub(hubRef *websocket.HubRef, log logrus.FieldLogger) {
	for {
		panicked := false
		currentHub, ok := hubRef.Get()
		if !ok {
			time.Sleep(1 * time.Second)
			hubRef.Set(websocket.NewHub())
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicked = true
					log.WithField("panic", r).Errorf("hub.Run panic\n%s", debug.Stack())
				}
			}()
			currentHub.Run()
		}()

		if !panicked {
			return
		}
		// Unblock clients still holding the dead hub.
		currentHub.Stop()
		hubRef.Set(websocket.NewHub())
		time.Sleep(1 * time.Second)
	}
}
