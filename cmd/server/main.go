package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caseintake/config"
	"caseintake/internal/cache"
	aiconfig "caseintake/internal/config"
	"caseintake/internal/engine"
	"caseintake/internal/quality"
	"caseintake/internal/repository"
	"caseintake/internal/service"
	"caseintake/internal/transport/rest"
	"caseintake/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	// Load AI config and log model settings
	aiCfg := aiconfig.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Eval:     %s", aiCfg.Models.Eval)
	log.Printf("  FollowUp: %s", aiCfg.Models.FollowUp)
	log.Printf("  DocGen:   %s", aiCfg.Models.DocGen)
	if aiCfg.IsEnabled() {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  NOT SET (using fallback evaluator)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	draftRepo := repository.NewDraftRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	documentRepo := repository.NewDocumentRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	evaluator := service.NewEvaluatorService(aiCfg)
	gate := quality.NewGate(quality.DefaultGateConfig())

	interviewSvc, err := service.NewInterviewService(
		sessionCache,
		draftRepo,
		submissionRepo,
		documentRepo,
		evaluator,
		gate,
		engine.DefaultSegments(),
		engine.DefaultRules(),
	)
	if err != nil {
		log.Fatal("Failed to initialize interview service:", err)
	}

	// Inject broadcaster (wsHub implements service.Broadcaster)
	interviewSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/interview/segments/current")
		log.Println("  POST /v1/interview/answers")
		log.Println("  PUT  /v1/interview/segments/{segmentId}/draft")
		log.Println("  POST /v1/interview/segments/{segmentId}/reopen")
		log.Println("  PUT  /v1/interview/segments/{segmentId}/answer")
		log.Println("  POST /v1/interview/submit")
		log.Println("  POST /v1/interview/regenerate")
		log.Println("  GET  /v1/documents/{documentId}")
		log.Println("  WS   /v1/ws/sessions")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
