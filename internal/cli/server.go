package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/config"
	"study-session-service/internal/domain"
	"study-session-service/internal/infra/memory"
	pgloader "study-session-service/internal/infra/postgres"
	redisstore "study-session-service/internal/infra/redis"
	transport "study-session-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the study server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, logger)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := setLoader(cfg, pool)
	if err != nil {
		return err
	}

	setTTL := config.TTLDuration(cfg.Sets.TTL, 10*time.Minute)
	attemptTTL := config.TTLDuration(cfg.Attempts.TTL, 24*time.Hour)

	var (
		sets     app.SetRepository
		attempts app.AttemptRepository
		sessions app.SessionRepository
	)
	if redisClient != nil {
		sets = redisstore.NewSetRepository(redisClient, loader, setTTL)
		attempts = redisstore.NewAttemptStore(redisClient, attemptTTL)
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		sets = memory.NewSetRepository(loader, setTTL)
		attempts = memory.NewAttemptStore(attemptTTL)
		sessions = memory.NewSessionStore()
	}

	quizzes := app.NewQuizService(sets, attempts, tuning, app.WithLogger(logger))
	flashcards := app.NewFlashcardService(sets, sessions, tuning, app.WithLogger(logger))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewQuizHandler(quizzes, logger).Register(mux)
	mux.HandleFunc("/ws/flashcards", transport.NewWSHandler(flashcards, logger).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      corsHandler(cfg.Server.AllowedOrigins).Handler(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting study service", "port", finalPort, "redis", redisClient != nil, "postgres", pool != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func setLoader(cfg config.Config, pool *pgxpool.Pool) (memory.SetLoader, error) {
	if pool != nil {
		return pgloader.NewSetLoader(pool), nil
	}
	if cfg.Sets.File != "" {
		sets, err := memory.ReadSetFile(cfg.Sets.File)
		if err != nil {
			return nil, err
		}
		return memory.NewStaticSetLoader(sets), nil
	}
	return memory.NewStaticSetLoader(sampleSets()), nil
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:         86400,
	})
}

// sampleSets is served when neither Postgres nor a set file is configured.
func sampleSets() map[string]domain.Set {
	return map[string]domain.Set{
		"biology-1": {
			ID:    "biology-1",
			Title: "Cell biology",
			Cards: []domain.Card{
				{ID: "c1", Term: "Mitochondria", Definition: "the powerhouse of the cell", Index: 0},
				{ID: "c2", Term: "Chlorophyll", Definition: "green pigment that captures light", Index: 1},
				{ID: "c3", Term: "Ribosome", Definition: "builds proteins from amino acids", Index: 2},
				{ID: "c4", Term: "Nucleus", Definition: "holds the genetic material", Index: 3},
			},
		},
	}
}
