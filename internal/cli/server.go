package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/config"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/infra/memory"
	transport "news-credibility-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the credibility server",
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
	if finalPort == "" {
		finalPort = "8080"
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	feed := app.NewArticleFeed()
	stats := app.NewStatsService(d.store, d.board, app.StatsOptions{
		MostCredibleMinResponses: cfg.Stats.MostCredibleMinResponses,
	})
	api := transport.NewAPIHandler(
		app.NewSubmissionService(d.store, d.quizzes, d.board, feed),
		app.NewFlagService(d.store, d.board, feed),
		stats,
		app.NewUserService(d.store),
		transport.Limits{
			Leaderboard: config.IntOr(cfg.Leaderboard.Limit, 10),
			Articles:    config.IntOr(cfg.Stats.TopLimit, 10),
		},
	)
	wsHandler := transport.NewWSHandler(feed, stats)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	api.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting credibility service on :%s", finalPort)
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

// seedSampleData provides a minimal article and quiz for in-memory runs.
func seedSampleData(ctx context.Context, store *memory.Store) error {
	article := &domain.Article{
		URL:       "https://news.example.com/2024/city-council-budget",
		Title:     "City council approves revised budget",
		Content:   "The city council voted 7-2 on Tuesday to approve a revised budget that increases transit funding by 12 percent.",
		Summary:   "Council approves budget with a 12 percent transit increase.",
		WordCount: 19,
	}
	if err := store.CreateArticle(ctx, article); err != nil {
		return err
	}
	return store.CreateQuiz(ctx, &domain.Quiz{
		ArticleID:             article.ID,
		Title:                 "Misinformation Detection Quiz",
		FocusOnMisinformation: true,
		Questions: []domain.Question{
			{
				Text:          "How did the council vote?",
				Options:       [domain.OptionsPerQuestion]string{"9-0", "7-2", "5-4", "It did not vote"},
				CorrectOption: domain.Option2,
			},
			{
				Text:          "By how much does transit funding increase?",
				Options:       [domain.OptionsPerQuestion]string{"2 percent", "7 percent", "12 percent", "20 percent"},
				CorrectOption: domain.Option3,
			},
		},
	})
}
