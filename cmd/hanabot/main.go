// Command hanabot runs the bot: it joins a game server over a
// websocket, plays with the belief engine, and serves a small HTTP
// surface for health checks and finished-game replays.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/internal/cache"
	"github.com/WillFlame14/hanabi-bot-sub000/internal/client"
	"github.com/WillFlame14/hanabi-bot-sub000/internal/gamelog"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(env("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *gamelog.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		var err error
		store, err = gamelog.Open(ctx, dsn)
		if err != nil {
			log.WithError(err).Fatal("opening database")
		}
		defer store.Close()
		if err := gamelog.Migrate(ctx, store); err != nil {
			log.WithError(err).Fatal("migrating database")
		}
	} else {
		log.Warn("DATABASE_URL unset, games will not be persisted")
	}

	var tables *cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		tables = cache.New(addr, cache.DefaultTTL)
		if err := tables.Ping(ctx); err != nil {
			log.WithError(err).Fatal("pinging redis")
		}
		defer tables.Close()
	} else {
		log.Warn("REDIS_ADDR unset, tables will not be checkpointed")
	}

	httpAddr := env("HTTP_ADDR", ":8080")
	srv := &http.Server{Addr: httpAddr, Handler: router(store, log)}
	go func() {
		log.WithField("addr", httpAddr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	cfg := client.Config{
		ServerURL: env("HANABI_SERVER_URL", "ws://localhost:8081/ws"),
		BotName:   env("HANABI_BOT_NAME", "hanabot"),
		Level:     2,
		Store:     store,
		Cache:     tables,
		Log:       log,
	}

	// Reconnect with a flat backoff until shut down.
	for ctx.Err() == nil {
		if err := runSession(ctx, cfg); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("session ended, reconnecting")
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
	}
	log.Info("shutting down")
}

func runSession(ctx context.Context, cfg client.Config) error {
	c, err := client.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Run(ctx)
}

func router(store *gamelog.DB, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/games", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
			return
		}
		games, err := store.ListGames(req.Context(), 50)
		if err != nil {
			log.WithError(err).Error("listing games")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, games)
	})

	r.Get("/games/{id}", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
			return
		}
		id, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, "bad game id", http.StatusBadRequest)
			return
		}
		rec, err := store.LoadGame(req.Context(), id)
		if errors.Is(err, gamelog.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.WithError(err).Error("loading game")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rec)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
