package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-live-service/internal/app"
	"quiz-live-service/internal/config"
	"quiz-live-service/internal/domain"
	"quiz-live-service/internal/infra/memory"
	pgstore "quiz-live-service/internal/infra/postgres"
	redisinfra "quiz-live-service/internal/infra/redis"
	transport "quiz-live-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
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
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	leaderboardTTL := config.TTLDuration(cfg.Cache.LeaderboardTTL, 24*time.Hour)
	questionTTL := config.TTLDuration(cfg.Cache.QuestionTTL, 10*time.Minute)
	markerWindow := config.TTLDuration(cfg.Session.MarkerWindow, 5*time.Minute)

	var participants app.ParticipantStore
	var content app.ContentStore
	if pool != nil {
		participants = pgstore.NewParticipantStore(pool)
		content = pgstore.NewContentStore(pool)
	} else {
		presentations, questions := sampleContent()
		participants = memory.NewParticipantStore()
		content = memory.NewContentStore(presentations, questions)
		log.Printf("postgres url not configured, serving sample content from memory")
	}

	var state app.SessionState
	var guard app.AnswerGuard
	var cache app.LeaderboardCache
	if redisClient != nil {
		state = redisinfra.NewSessionState(redisClient)
		guard = redisinfra.NewAnswerGuard(redisClient)
		cache = redisinfra.NewLeaderboardCache(redisClient)
		content = redisinfra.NewContentCache(redisClient, content, questionTTL)
	} else {
		state = memory.NewSessionState()
		guard = memory.NewAnswerGuard()
		cache = memory.NewLeaderboardCache()
	}

	hub := transport.NewHub()

	broadcastLimit := cfg.Leaderboard.BroadcastLimit
	if broadcastLimit <= 0 {
		broadcastLimit = app.DefaultBroadcastLimit
	}
	leaderboard := app.NewLeaderboardService(participants, cache, hub, leaderboardTTL, broadcastLimit)
	control := app.NewSessionControl(content, state, guard, leaderboard, hub, markerWindow)
	answers := app.NewAnswerService(content, state, guard, leaderboard, config.TTLDuration(cfg.Session.ReceiptTTL, 24*time.Hour))
	participantSvc := app.NewParticipantService(participants, content)

	api := transport.NewAPI(participantSvc, answers, leaderboard, control, content)
	wsHandler := transport.NewWSHandler(hub, control)
	router := transport.NewRouter(api, wsHandler, cfg.Server.AllowOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleContent provides a minimal presentation so the server is usable
// without a database.
func sampleContent() ([]domain.Presentation, []domain.Question) {
	presentations := []domain.Presentation{
		{
			ID:        1,
			Title:     "Demo Presentation",
			AdminCode: "demo",
			Status:    domain.StatusWaiting,
		},
	}
	questions := []domain.Question{
		{
			ID:               1,
			PresentationID:   1,
			GroupName:        "warmup",
			Content:          domain.QuestionContent{Text: "What is 2 + 2?"},
			TimeLimitSeconds: 20,
			Order:            1,
			Options: []domain.Option{
				{ID: 1, QuestionID: 1, Text: "3"},
				{ID: 2, QuestionID: 1, Text: "4", IsCorrect: true},
				{ID: 3, QuestionID: 1, Text: "5"},
			},
		},
	}
	return presentations, questions
}
