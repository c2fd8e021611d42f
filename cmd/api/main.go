package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burim-estate/internal/auth"
	"burim-estate/internal/cleanup"
	"burim-estate/internal/config"
	"burim-estate/internal/database"
	"burim-estate/internal/handlers"
	"burim-estate/internal/history"
	"burim-estate/internal/listing"
	"burim-estate/internal/logger"
	"burim-estate/internal/news"
	"burim-estate/internal/ratelimit"
	"burim-estate/internal/scheduler"
	"burim-estate/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		logger.New().Fatal("Failed to load config from %s: %v", configPath, err)
	}

	log := logger.NewWithOptions(appConfig.Logging.Level, appConfig.Logging.Console, os.Stderr)
	log.Info("Loaded configuration from %s", configPath)

	if err := appConfig.Validate(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}
	loc := appConfig.Location()

	// Initialize database
	gormDB, err := database.Open(appConfig)
	if err != nil {
		log.Fatal("Failed to connect to %s: %v", appConfig.Database.Type, err)
	}
	defer gormDB.Close()
	log.Info("Using %s with GORM", appConfig.Database.Type)

	if err := gormDB.InitSchema(); err != nil {
		log.Fatal("Failed to initialize schema: %v", err)
	}

	// Initialize Meilisearch (optional)
	var searchIndex handlers.SearchIndex
	if host := appConfig.Search.Meilisearch.Host; host != "" {
		searchClient := search.NewSearchClient(host, appConfig.Search.Meilisearch.APIKey, appConfig.Search.Meilisearch.Index)
		if err := searchClient.InitIndex(); err != nil {
			log.Warn("[Search API] Failed to initialize search index, using database search: %v", err)
		} else {
			searchIndex = searchClient
			log.Info("[Search API] Meilisearch index %q ready at %s", appConfig.Search.Meilisearch.Index, host)
		}
	} else {
		log.Info("[Search API] Meilisearch not configured, using database search")
	}

	// Initialize rate limiter: redis when configured, in memory otherwise
	limits := ratelimit.Limits{
		PerMinute: appConfig.RateLimit.RequestsPerMinute,
		PerHour:   appConfig.RateLimit.RequestsPerHour,
		PerDay:    appConfig.RateLimit.RequestsPerDay,
	}
	var inquiryLimit gin.HandlerFunc
	var memoryLimiter *ratelimit.RateLimiter
	if appConfig.RateLimit.Enabled {
		var limiter ratelimit.Limiter
		if appConfig.Redis.Addr != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     appConfig.Redis.Addr,
				Password: appConfig.Redis.Password,
				DB:       appConfig.Redis.DB,
			})
			defer redisClient.Close()

			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := redisClient.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				log.Warn("[RateLimit] Redis unavailable at %s, using in-memory limiter: %v", appConfig.Redis.Addr, err)
			} else {
				limiter = ratelimit.NewRedisLimiter(redisClient, limits, "rate_limit:inquiries")
				log.Info("[RateLimit] Using redis at %s", appConfig.Redis.Addr)
			}
		}
		if limiter == nil {
			memoryLimiter = ratelimit.NewRateLimiter(limits, true)
			limiter = memoryLimiter
		}
		inquiryLimit = ratelimit.Middleware(limiter, log)
		log.Info("Rate limiter initialized: %d req/min, %d req/hour, %d req/day",
			limits.PerMinute, limits.PerHour, limits.PerDay)
	}

	// News pipeline
	feedFetcher := news.NewBreakerFetcher(
		news.NewGofeedFetcher(appConfig.UserAgent, appConfig.News.GetFeedTimeout()),
		appConfig.News.BreakerFailures, appConfig.News.GetBreakerReset(), log.With("news"),
	)
	pipeline := news.NewPipeline(
		feedFetcher,
		news.NewOpenAIGenerator(news.OpenAIOptions{
			APIKey:      appConfig.News.LLM.APIKey,
			BaseURL:     appConfig.News.LLM.BaseURL,
			Model:       appConfig.News.LLM.Model,
			Temperature: appConfig.News.LLM.Temperature,
			Timeout:     appConfig.News.LLM.GetTimeout(),
		}),
		gormDB,
		news.Config{
			Feeds:      appConfig.News.Feeds,
			DailyQuota: appConfig.News.DailyQuota,
			Keywords: news.Keywords{
				Topic:    appConfig.News.TopicKeywords,
				Exclude:  appConfig.News.ExcludeKeywords,
				Locality: appConfig.News.LocalityKeywords,
			},
			Location: loc,
		},
		log.With("news"),
	)
	if appConfig.News.LLM.APIKey == "" {
		log.Warn("[News] OPENAI_API_KEY is not set, news generation will fail")
	}

	historyService := history.NewService(gormDB.DB())
	cleanupService := cleanup.NewService(gormDB.DB(), log.With("cleanup"))

	// Initialize and start scheduler
	appScheduler := scheduler.NewScheduler(cleanupService, appConfig.Cleanup, loc, log.With("scheduler"))
	if memoryLimiter != nil {
		appScheduler.WithPruner(memoryLimiter)
	}
	if err := appScheduler.Start(); err != nil {
		log.Warn("Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	jwtService := auth.NewService(appConfig.Admin.Secret, appConfig.Admin.GetTokenTTL())
	credentials := auth.NewCredentials(appConfig.Admin.Username, appConfig.Admin.Password, appConfig.Admin.PasswordHash)

	routes := &handlers.Routes{
		Properties:   handlers.NewPropertyHandler(gormDB, listing.NewEngine(gormDB.DB()), searchIndex, historyService, log),
		Inquiries:    handlers.NewInquiryHandler(gormDB, log),
		News:         handlers.NewNewsHandler(gormDB, pipeline, log),
		Settings:     handlers.NewSettingsHandler(gormDB, appConfig.Site, log),
		Auth:         handlers.NewAuthHandler(credentials, jwtService, appConfig.Admin.SecureCookie, log),
		Admin:        handlers.NewAdminHandler(gormDB, searchIndex, pipeline, historyService, cleanupService, appConfig.Cleanup, log),
		JWT:          jwtService,
		InquiryLimit: inquiryLimit,
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.Register(r)

	srv := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: r,
	}

	go func() {
		log.Info("Server starting on port %s", appConfig.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
