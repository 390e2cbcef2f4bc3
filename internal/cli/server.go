package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quizforge-service/internal/app"
	"quizforge-service/internal/config"
	filestore "quizforge-service/internal/infra/file"
	"quizforge-service/internal/infra/memory"
	pgstore "quizforge-service/internal/infra/postgres"
	redisstore "quizforge-service/internal/infra/redis"
	transport "quizforge-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the API server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the QuizForge API server",
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

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var loader memory.QuestionLoader = filestore.NewQuestionLoader(cfg.Data.Questions)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionStore, err := memory.LoadQuestionStore(ctx, loader)
	if err != nil {
		return err
	}
	logrus.WithField("questions", questionStore.Len()).Info("question dataset loaded")

	var sessions app.SessionRepository = filestore.NewSessionStore(cfg.Data.Sessions)
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = redisstore.NewSessionStore(client)
	}

	questionService := app.NewQuestionService(questionStore)
	scoreService := app.NewScoreService(sessions)

	handler := transport.NewHandler(questionService, scoreService, cfg.App.Name, cfg.App.Version)
	wsHandler := transport.NewWSHandler(scoreService)

	router := handler.Routes()
	router.Get("/ws/leaderboard", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logrus.WithField("port", finalPort).Info("starting quizforge service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("error", err).Error("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logrus.Info("shutting down server...")
	case <-ctx.Done():
		logrus.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
