package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"showgap/internal/adapter"
	"showgap/internal/catalog"
	"showgap/internal/classify"
	"showgap/internal/config"
	"showgap/internal/domain"
	"showgap/internal/optimizer"
	"showgap/internal/repository/sqlite"
	"showgap/internal/seed"
	"showgap/internal/service"
	"showgap/internal/task"
	"showgap/internal/timeline"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger = logger.Level(level)

	// Log configuration (excluding secrets)
	cfg.LogConfiguration(logger)

	// Initialize SQLite database with WAL mode
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Run database migrations to ensure schema is up to date
	if err := sqlite.Migrate(db.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize data access layer
	userRepo := sqlite.NewUserRepository(db)
	subscriptionRepo := sqlite.NewSubscriptionRepository(db)
	showStateRepo := sqlite.NewShowStateRepository(db)
	store := sqlite.NewStore(db)

	// Initialize the catalog source. The v4 read token is preferred;
	// the v3 API key is the fallback.
	var source domain.CatalogSource
	if cfg.TMDBReadToken != "" {
		source = adapter.NewTMDBAdapterWithToken(cfg.TMDBReadToken)
	} else {
		source = adapter.NewTMDBAdapter(cfg.TMDBAPIKey)
	}

	clock := domain.SystemClock{}
	cache := catalog.New(source, clock, catalog.DefaultConfig(), logger)

	// Initialize the planning core
	classifier, err := classify.NewClassifier(classify.DefaultConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build classifier")
	}
	aggregator := classify.NewAggregator(classifier, clock, classify.DefaultConfig())

	builder, err := timeline.NewBuilder(timeline.Config{
		GraceDays: cfg.GraceDays,
		Country:   cfg.Country,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build timeline builder")
	}

	opt, err := optimizer.New(optimizer.Config{
		MinGapDays:  optimizer.DefaultConfig().MinGapDays,
		HorizonDays: cfg.HorizonDays,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build optimizer")
	}

	advisor := service.NewAdvisor(cache, store, aggregator, builder, opt, clock, service.Config{
		MaxWorkers:  cfg.MaxWorkers,
		HorizonDays: cfg.HorizonDays,
		GraceDays:   cfg.GraceDays,
		Country:     cfg.Country,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed a demo user so a fresh install has something to plan against
	if cfg.SeedDemoData {
		seeder := seed.NewSeeder(userRepo, subscriptionRepo, showStateRepo, logger)
		if _, err := seeder.SeedDemoUser(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	// Keep popular catalog entries warm in the background
	worker := task.NewRefreshWorker(cache, cfg.RefreshInterval, logger)
	worker.Start(ctx)
	defer worker.Stop()

	if err := runDemo(ctx, advisor, store, logger); err != nil {
		logger.Fatal().Err(err).Msg("planning run failed")
	}

	logger.Info().Msg("planning run complete, watching catalog until interrupted")
	<-ctx.Done()
}

// runDemo classifies the demo user's tracked shows, builds their
// 90-day timeline, and prints subscription recommendations
func runDemo(ctx context.Context, advisor *service.Advisor, store domain.UserStore, logger zerolog.Logger) error {
	userID := seed.DemoUserID

	states, err := store.GetUserShowStates(ctx, userID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		logger.Warn().Str("user_id", userID).Msg("no tracked shows; set SEED_DEMO_DATA=true to seed a demo user")
		return nil
	}

	for _, state := range states {
		result, err := advisor.Classify(ctx, state.ShowID)
		if err != nil {
			logger.Warn().Err(err).Str("show_id", state.ShowID).Msg("classification failed")
			continue
		}
		logger.Info().
			Str("show_id", result.ShowID).
			Str("pattern", string(result.ShowLevel.Pattern)).
			Float64("confidence", result.ShowLevel.Confidence).
			Bool("degraded", result.Degraded).
			Msg("classified show")
	}

	from := time.Now()
	to := from.AddDate(0, 3, 0)
	tl, err := advisor.BuildTimeline(ctx, userID, from, to)
	if err != nil {
		return err
	}
	logger.Info().
		Int("entries", len(tl.Entries)).
		Bool("degraded", tl.Degraded).
		Msg("built viewing timeline")

	recommendations, err := advisor.Optimize(ctx, userID)
	if err != nil {
		return err
	}
	if len(recommendations) == 0 {
		logger.Info().Msg("no subscription changes recommended")
		return nil
	}
	for _, rec := range recommendations {
		event := logger.Info().
			Str("service", rec.ServiceID).
			Str("type", string(rec.Type)).
			Float64("savings", rec.EstimatedSavings).
			Float64("confidence", rec.Confidence).
			Time("window_start", rec.WindowStart).
			Bool("manual_review", rec.ManualReview)
		if rec.WindowEnd != nil {
			event = event.Time("window_end", *rec.WindowEnd)
		}
		event.Msg(rec.Reasoning)
	}
	return nil
}
