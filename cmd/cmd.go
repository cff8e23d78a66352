package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/auth"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/cache"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/config"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/handlers"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/media"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/middleware"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/migrations"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run starts the API server and blocks until SIGINT or SIGTERM
func Run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if autoMigrate {
		if err := migrate(ctx, db); err != nil {
			return err
		}
	}

	redisClient := newRedisClient(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	images, err := newImageStore(ctx, cfg.AWS)
	if err != nil {
		return err
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	profileCache := cache.NewProfileCache(redisClient, cache.DefaultTTL)

	// Initialize services
	authClient := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.Key)
	userService := services.NewUserService(authClient, profileRepo)
	profileService := services.NewProfileService(profileRepo, profileCache)
	feedService := services.NewFeedService(postRepo, commentRepo, likeRepo, cfg.Feed)
	socialService := services.NewSocialService(profileRepo, postRepo, commentRepo, likeRepo, images)
	tutorService := services.NewTutorService(profileRepo, slotRepo, bookingRepo, profileCache)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, profileService)
	feedHandler := handlers.NewFeedHandler(feedService, socialService)
	tutorHandler := handlers.NewTutorHandler(tutorService)

	// Setup router
	router := handlers.NewRouter(handlers.RouterConfig{
		CORSOrigin:  cfg.Server.CORSOrigin,
		BodyLimit:   cfg.Server.BodyLimit(),
		Verifier:    newVerifier(cfg.Supabase, authClient),
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}, userHandler, feedHandler, tutorHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

func migrate(ctx context.Context, db *pgxpool.Pool) error {
	migrator, err := migrations.NewMigrator(db)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up(ctx)
}

// newVerifier checks tokens locally when the JWT secret is known, otherwise asks the provider
func newVerifier(cfg config.SupabaseConfig, client *auth.Client) middleware.Verifier {
	if cfg.JWTSecret != "" {
		log.Info().Msg("Verifying access tokens locally")
		return auth.NewJWTVerifier(cfg.JWTSecret)
	}
	return client
}

// newRedisClient connects to Redis when configured. The API runs without a cache when it is unreachable.
func newRedisClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		log.Info().Msg("Redis not configured, profile cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, profile cache disabled")
		client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")
	return client
}

// newImageStore uploads post images to S3 when a bucket is configured
func newImageStore(ctx context.Context, cfg config.AWSConfig) (media.ImageStore, error) {
	if cfg.S3Bucket == "" {
		log.Info().Msg("S3 bucket not configured, post images are stored as sent")
		return media.PassthroughStore{}, nil
	}

	store, err := media.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}
	return store, nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
