package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-live-service/internal/app"
	"quiz-live-service/internal/domain"
	pgstore "quiz-live-service/internal/infra/postgres"
	pgmigrations "quiz-live-service/internal/infra/postgres/migrations"
	infraredis "quiz-live-service/internal/infra/redis"
)

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(int64, domain.Event) {}

func TestAnswerFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedPresentation(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	participants := pgstore.NewParticipantStore(pool)
	content := infraredis.NewContentCache(redisClient, pgstore.NewContentStore(pool), 5*time.Minute)
	state := infraredis.NewSessionState(redisClient)
	guard := infraredis.NewAnswerGuard(redisClient)
	cache := infraredis.NewLeaderboardCache(redisClient)

	leaderboard := app.NewLeaderboardService(participants, cache, nopBroadcaster{}, 24*time.Hour, 10)
	control := app.NewSessionControl(content, state, guard, leaderboard, nopBroadcaster{}, 5*time.Minute)
	answers := app.NewAnswerService(content, state, guard, leaderboard, 24*time.Hour)
	participantSvc := app.NewParticipantService(participants, content)

	alice, err := participantSvc.Join(ctx, 1, "Alice")
	if err != nil {
		t.Fatalf("join alice: %v", err)
	}
	bob, err := participantSvc.Join(ctx, 1, "Bob")
	if err != nil {
		t.Fatalf("join bob: %v", err)
	}

	if err := control.StartQuestion(ctx, 1, 1); err != nil {
		t.Fatalf("start question: %v", err)
	}

	outcome, err := answers.Submit(ctx, alice, 1, 2, 3.0)
	if err != nil {
		t.Fatalf("submit alice: %v", err)
	}
	if !outcome.IsCorrect || outcome.PointsEarned != 1425 {
		t.Fatalf("expected correct answer worth 1425 points, got %+v", outcome)
	}

	outcome, err = answers.Submit(ctx, bob, 1, 1, 4.0)
	if err != nil {
		t.Fatalf("submit bob: %v", err)
	}
	if outcome.IsCorrect || outcome.PointsEarned != 0 {
		t.Fatalf("expected incorrect answer worth 0 points, got %+v", outcome)
	}

	if _, err := answers.Submit(ctx, alice, 1, 3, 5.0); err != domain.ErrDuplicateAnswer {
		t.Fatalf("expected ErrDuplicateAnswer on resubmit, got %v", err)
	}

	rows, err := leaderboard.TopParticipants(ctx, 1, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 1 || rows[0].ParticipantID != alice.ID || rows[0].Score != 1425 {
		t.Fatalf("expected alice leading with 1425, got %+v", rows)
	}

	rank, score, err := leaderboard.ParticipantRank(ctx, alice.ID, 1)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if rank != 1 || score != 1425 {
		t.Fatalf("expected rank 1 score 1425, got rank=%d score=%d", rank, score)
	}

	if err := control.EndQuestion(ctx, 1, 1); err != nil {
		t.Fatalf("end question: %v", err)
	}
	if _, active, err := control.CurrentQuestion(ctx, 1); err != nil || active {
		t.Fatalf("expected no active question after end, active=%v err=%v", active, err)
	}
}

func seedPresentation(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stmts := []string{
		`INSERT INTO presentations (id, title, admin_code, status) VALUES (1, 'Demo', 'secret', 'waiting')`,
		`INSERT INTO questions (id, presentation_id, group_name, content, time_limit_seconds, "order")
		 VALUES (1, 1, 'warmup', '{"text": "What is 2 + 2?"}', 20, 1)`,
		`INSERT INTO options (id, question_id, text, is_correct) VALUES
		 (1, 1, '3', false), (2, 1, '4', true), (3, 1, '5', false)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
