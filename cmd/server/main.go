package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/api"
	"github.com/maheshrc27/postflow-studio/internal/api/handlers"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
	"github.com/maheshrc27/postflow-studio/internal/cache"
	job "github.com/maheshrc27/postflow-studio/internal/jobs"
	"github.com/maheshrc27/postflow-studio/internal/metrics"
	"github.com/maheshrc27/postflow-studio/internal/queue"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	backend := service.NewBackendService(*cfg)

	uploader, err := newUploader(*cfg, backend)
	if err != nil {
		log.Fatalf("Failed to set up uploads: %v", err)
	}

	var db *sql.DB
	var attempts repository.SubmitAttemptRepository
	if cfg.PostgresURI != "" {
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer closeDB(db)

		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}

		attemptRepo := repository.NewSubmitAttemptRepository(db)
		if err := attemptRepo.Migrate(context.Background()); err != nil {
			log.Fatalf("Failed to migrate submit attempts: %v", err)
		}
		attempts = attemptRepo
	}

	var redisClient *redis.Client
	var enqueuer queue.Enqueuer
	var asynqServer *asynq.Server
	if cfg.RedisURI != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisURI)
		if err != nil {
			log.Fatalf("Failed to set up redis: %v", err)
		}
		defer redisClient.Close()

		redisConn := asynq.RedisClientOpt{
			Addr:     redisClient.Options().Addr,
			Password: redisClient.Options().Password,
			DB:       redisClient.Options().DB,
		}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		enqueuer = client

		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
	}

	statusCache := cache.NewStatusCache(redisClient)
	statusQueue := queue.NewQueue(backend, statusCache, m)
	sessions := service.NewComposerRegistry()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.BackendTimeout + 30*time.Second,
		WriteTimeout: cfg.BackendTimeout + 30*time.Second,
		BodyLimit:    2 * service.MaxUploadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error(err.Error())
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	prom := fiberprometheus.New("postflow-studio")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api.RegisterRoutes(app, authMiddleware, api.Handlers{
		User:    handlers.NewUserHandler(),
		Content: handlers.NewContentHandler(backend),
		Composer: handlers.NewComposerHandler(
			backend, uploader, sessions, enqueuer, attempts, m,
			cfg.StatusCheckGrace, cfg.DefaultPlatform),
		Post: handlers.NewPostHandler(backend, statusCache, statusQueue),
	})

	// cron jobs
	c := cron.New()
	if cfg.DispatchSchedule != "" {
		dispatchJob := job.NewDispatchJob(backend, cfg.BackendTimeout)
		if err := c.AddFunc(cfg.DispatchSchedule, dispatchJob.TriggerDispatch); err != nil {
			log.Fatalf("Invalid DISPATCH_SCHEDULE: %v", err)
		}
	}
	sweepJob := job.NewSessionSweepJob(sessions, cfg.ComposerIdleTimeout, func(open int) {
		m.OpenComposers.Set(float64(open))
	})
	c.AddFunc("@every 00h05m00s", sweepJob.SweepIdleComposers)
	c.Start()
	defer c.Stop()

	//queue
	if asynqServer != nil {
		go func() {
			mux := asynq.NewServeMux()
			mux.HandleFunc(queue.TaskTypeStatusCheck, statusQueue.HandleStatusCheckTask)

			log.Println("Starting the Asynq server...")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, asynqServer)
}

func newUploader(cfg config.Config, backend service.BackendService) (service.MediaUploader, error) {
	if cfg.UploadTarget != config.UploadTargetR2 {
		return service.NewBackendUploader(backend), nil
	}
	r2, err := service.NewR2Service(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return service.NewR2Uploader(r2), nil
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, asynqServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	if asynqServer != nil {
		asynqServer.Shutdown()
	}

	log.Println("Server shutdown complete.")
}
