package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/logging"
	"inquiry-relay/news"
	"inquiry-relay/notification"
	"inquiry-relay/server"
	"inquiry-relay/service"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "inquiry-relay",
	Short: "Relays website inquiries to Discord or email and refreshes the news ticker",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(cfg.App.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP endpoints and the scheduled news ticker",
	RunE:  runServe,
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Fetch, summarize and store the ticker for the current hour once",
	RunE:  runNews,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(serveCmd, newsCmd)
}

func newRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func newAggregator(store *news.Store) (*news.Aggregator, *time.Location, error) {
	loc, err := time.LoadLocation(cfg.News.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid news timezone %q: %w", cfg.News.Timezone, err)
	}

	search := news.NewSearchClient(cfg.News.GoogleAPIKey, cfg.News.SearchEngineID)
	summarizer := news.NewSummarizer(news.SummarizerOptions{
		APIKey:      cfg.News.OpenAIAPIKey,
		Model:       cfg.News.Model,
		MaxTokens:   cfg.News.MaxTokens,
		Temperature: *cfg.News.Temperature,
	})
	return news.NewAggregator(cfg, search, summarizer, store, loc, logger.Named("news")), loc, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("configuration loaded", zap.String("environment", cfg.App.Env))

	resolver := notification.NewResolver(cfg, logger)
	mailer := notification.NewMailer(cfg, logger.Named("email"))
	discord := notification.NewDiscordNotifier(logger.Named("discord"))
	intake := service.NewIntakeService(cfg, discord, mailer, resolver, logger)

	rdb := newRedisClient()
	defer rdb.Close()
	store := news.NewStore(rdb)

	agg, loc, err := newAggregator(store)
	if err != nil {
		return err
	}
	scheduler, err := news.NewScheduler(cfg.News.Schedule, loc, agg, logger.Named("news"))
	if err != nil {
		return err
	}
	if err := cfg.RequireNews(); err != nil {
		logger.Warn("news ticker runs will be skipped", zap.Error(err))
	}
	scheduler.Start()

	srv := server.NewServer(cfg, intake, store, loc, logger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		logger.Warn("news ticker run still in progress at exit")
	}

	logger.Info("server exited properly")
	return nil
}

func runNews(cmd *cobra.Command, args []string) error {
	rdb := newRedisClient()
	defer rdb.Close()

	agg, _, err := newAggregator(news.NewStore(rdb))
	if err != nil {
		return err
	}
	return agg.Run(cmd.Context(), time.Now())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
