package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmind-ai/leadbooth/internal/infra/database"
	"github.com/bitmind-ai/leadbooth/internal/infra/http/handlers"
	"github.com/bitmind-ai/leadbooth/internal/infra/http/middleware"
	"github.com/bitmind-ai/leadbooth/internal/infra/integration/deepgram"
	"github.com/bitmind-ai/leadbooth/internal/infra/integration/perplexity"
	"github.com/bitmind-ai/leadbooth/internal/infra/mail"
	"github.com/bitmind-ai/leadbooth/internal/infra/queue"
	"github.com/bitmind-ai/leadbooth/internal/infra/storage"
	"github.com/bitmind-ai/leadbooth/internal/infra/worker"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	ctx := context.Background()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)

	// 2. Gateways and adapters
	transcriber := deepgram.NewClient(os.Getenv("DEEPGRAM_API_KEY"))
	research := perplexity.NewClient(os.Getenv("PERPLEXITY_API_KEY"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	mailPort, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort,
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		envOr("MAIL_FROM", "no-reply@bitmind.ai"),
	)

	photos, err := storage.NewS3PhotoStorage(ctx,
		envOr("AWS_REGION", "us-east-1"),
		os.Getenv("PHOTO_BUCKET"),
		os.Getenv("PHOTO_PUBLIC_URL"),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 3. UseCases
	intakeUC := usecase.NewIntakeUseCase(leadRepo, mailSender)
	annotateUC := usecase.NewAnnotateLeadUseCase(leadRepo, photos, producer)
	analyzeUC := usecase.NewAnalyzeLeadUseCase(leadRepo, research)

	// 4. Workers (queue consumer + in-process sweep fallback)
	analysisWorker := queue.NewWorker(rabbitMQ.Ch, analyzeUC)
	go analysisWorker.Start(queue.QueueName)

	if os.Getenv("ANALYSIS_SWEEP_ENABLED") == "true" {
		sweep := worker.NewAnalysisSweepWorker(leadRepo, producer)
		go sweep.Start(ctx)
	}

	// 5. Handlers
	intakeHandler := handlers.NewIntakeHandler(intakeUC)
	adminHandler := handlers.NewAdminHandler(leadRepo, annotateUC)
	transcribeHandler := handlers.NewTranscribeHandler(transcriber)
	triggerHandler := handlers.NewAnalysisTriggerHandler(leadRepo, producer, os.Getenv("CRON_SECRET"))
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	adminAuth := middleware.AdminAuth(
		[]byte(os.Getenv("ADMIN_JWT_SECRET")),
		envOr("ADMIN_ALLOWED_DOMAIN", "bitmind.ai"),
	)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/leads", intakeHandler.HandleSubmitEmail)
	r.Post("/api/leads/{leadId}/steps", intakeHandler.HandleSubmitStep)
	r.Post("/api/transcribe", transcribeHandler.Handle)
	r.Get("/api/cron/lead-analysis", triggerHandler.Handle)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuth)
		r.Get("/leads", adminHandler.HandleListLeads)
		r.Post("/leads", adminHandler.HandleCreateLead)
		r.Put("/leads/{leadId}/annotation", adminHandler.HandleSaveAnnotation)
		r.Post("/leads/{leadId}/photo", adminHandler.HandleUploadPhoto)
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 LeadBooth API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
