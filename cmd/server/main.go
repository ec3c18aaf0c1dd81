// @title           SkyVault API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session-token
package main

import (
	"context"
	"log"
	"net/http"

	"skyvault/internal/api"
	"skyvault/internal/config"
	"skyvault/internal/database"
	"skyvault/internal/files"
	"skyvault/internal/identity"
	"skyvault/internal/mail"
	"skyvault/internal/realtime"
	"skyvault/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "skyvault/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	objects, err := newObjectStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	store := database.NewStore(dbpool)

	fileService, err := files.NewService(store, objects, hub, cfg.HTTP.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize file service: %v", err)
	}

	identityService, err := identity.NewService(store, newMailer(cfg), cfg.Auth.TokenSecret, cfg.Auth.SessionTTL, cfg.Auth.OTPTTL)
	if err != nil {
		log.Fatalf("Failed to initialize identity service: %v", err)
	}

	server := api.NewServer(cfg, store, fileService, identityService, hub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.HTTP.PublicBaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(api.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Get("/ws", server.ServeWsHandler)
	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/auth/otp", server.RequestOTPHandler)
	r.Post("/api/v1/auth/sessions", server.VerifyOTPHandler)
	r.Delete("/api/v1/auth/sessions", server.SignOutHandler)

	// Public targets of the URLs stored on file records.
	r.Get("/api/v1/files/{fileId}/view", server.ViewFileHandler)
	r.Get("/api/v1/files/{fileId}/download", server.DownloadFileHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/usage", server.GetUsageHandler)
		r.Post("/files", server.UploadFilesHandler)
		r.Get("/files", server.ListFilesHandler)
		r.Patch("/files/{fileId}", server.RenameFileHandler)
		r.Put("/files/{fileId}/users", server.UpdateSharingHandler)
		r.Delete("/files/{fileId}", server.DeleteFileHandler)
		r.Get("/events", server.GetEventsHandler)
	})

	log.Printf("Starting server on %s", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newObjectStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	if cfg.Storage.Backend == "s3" {
		log.Printf("Using S3 object storage (bucket %s)", cfg.Storage.Bucket)
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
	}
	log.Printf("Using local object storage at %s", cfg.Storage.Path)
	return storage.NewLocalStorage(cfg.Storage.Path)
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.SMTP.Host == "" {
		log.Println("SMTP host not configured, OTP codes will be written to the log")
		return mail.LogMailer{}
	}
	return mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
}
