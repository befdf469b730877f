package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-pipeline/config"
	"order-pipeline/internal/api"
	"order-pipeline/internal/broker"
	"order-pipeline/internal/catalog"
	"order-pipeline/internal/redisclient"
	"order-pipeline/internal/service"
	"order-pipeline/internal/store"
	"order-pipeline/internal/util"
	"order-pipeline/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting order pipeline")

	tp, err := util.InitTracer("order-pipeline", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := db.InitSchema(context.Background()); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicTasks)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	taskPublisher := broker.NewTaskPublisher(producer)

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, redisClient, cfg.Catalog.CacheTTL)
	enricher := service.NewEnricher(catalogClient)
	orchestrator := service.NewOrchestrator(enricher, db, db)
	submitter := service.NewSubmitter(taskPublisher)
	simulator := service.NewSimulator(submitter)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	taskConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicTasks, cfg.Kafka.ConsumerGroup)
	orderWorker := worker.NewOrderWorker(taskConsumer, taskPublisher, orchestrator, cfg.Worker.MaxRetries, cfg.Worker.RetryDelay)
	go func() {
		if err := orderWorker.Start(workerCtx); err != nil {
			log.Printf("Order worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(submitter, simulator, db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if err := orderWorker.Stop(); err != nil {
		log.Printf("Error stopping order worker: %v", err)
	}

	log.Println("Server exited")
}
