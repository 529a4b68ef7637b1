package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/config"
	"github.com/openclaw/portfolio-server-go/internal/database"
	"github.com/openclaw/portfolio-server-go/internal/handler"
	"github.com/openclaw/portfolio-server-go/internal/jobs"
	"github.com/openclaw/portfolio-server-go/internal/logging"
	"github.com/openclaw/portfolio-server-go/internal/mail"
	"github.com/openclaw/portfolio-server-go/internal/middleware"
	"github.com/openclaw/portfolio-server-go/internal/provision"
	"github.com/openclaw/portfolio-server-go/internal/redis"
	"github.com/openclaw/portfolio-server-go/internal/repository"
	"github.com/openclaw/portfolio-server-go/internal/service"
	"github.com/openclaw/portfolio-server-go/internal/upload"
	"github.com/openclaw/portfolio-server-go/web"
)

func main() {
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logging.SetLevel(cfg.LogLevel)

	isProduction := cfg.IsProduction()
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	adminRepo := repository.NewAdminRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	skillRepo := repository.NewSkillRepository(db.DB)

	var cleanupTasks []jobs.Task
	var adminSessionRepo repository.AdminSessionRepository
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		adminSessionRepo = repository.NewRedisAdminSessionRepository(redisClient.Client)
		log.Info().Msg("admin sessions stored in redis")
	} else {
		adminSessionRepo = repository.NewAdminSessionRepository(db.DB)
		cleanupTasks = append(cleanupTasks, jobs.AdminSessionSweep(adminSessionRepo))
		log.Info().Msg("admin sessions stored in postgres")
	}

	storage, uploadDir, err := newUploadStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up upload storage")
	}
	resolver := upload.NewResolver(storage, config.MaxUploadBytes)

	var sender mail.Sender
	if cfg.MailConfigured() {
		sender = mail.NewSMTPSender(mail.SMTPOptions{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			Timeout:  config.MailSendTimeout,
		})
	} else {
		log.Warn().Msg("mail not configured: contact submissions will fail")
	}

	authService := service.NewAuthService(adminRepo, adminSessionRepo, cfg.SessionSecret, cfg.SessionMaxAge())
	contentService := service.NewContentService(projectRepo, skillRepo, resolver)
	contactService := service.NewContactService(sender, cfg.EmailUser, cfg.EmailTo, config.MailSendTimeout)

	if cfg.ProvisionOnBoot {
		ctx, cancel := context.WithTimeout(context.Background(), config.ProvisionTimeout)
		result, err := provision.NewProvisioner(adminRepo, projectRepo, skillRepo).Run(ctx, provision.Options{
			AdminUsername:        cfg.AdminUsername,
			AdminPassword:        cfg.AdminPasswordSeed(),
			AllowDefaultPassword: !isProduction,
			SeedDemoContent:      cfg.SeedDemoContent,
		})
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to provision")
		}
		log.Info().
			Bool("adminCreated", result.AdminCreated).
			Int("projectsSeeded", result.ProjectsSeeded).
			Int("skillsSeeded", result.SkillsSeeded).
			Msg("provisioning complete")
	}

	renderer, err := handler.NewRenderer(web.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}
	staticFiles, err := handler.StaticFileServer(web.FS, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load static assets")
	}

	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	siteHandler := handler.NewSiteHandler(contentService, contactService, renderer)
	adminHandler := handler.NewAdminHandler(authService, contentService, renderer, cfg.SessionMaxAge(), isProduction)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", handler.Health(db))
	r.Handle("/static/*", staticFiles)
	if uploadDir != "" {
		r.Handle("/uploads/*", handler.UploadFileServer(uploadDir))
	}

	siteHandler.Register(r)
	r.Mount("/admin", adminHandler.Routes())

	cleanupJob := jobs.NewCleanupJob(config.CleanupJobInterval, cleanupTasks...)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newUploadStorage returns the configured backend and, for local storage, the directory
// to serve under /uploads/.
func newUploadStorage(cfg *config.Config) (upload.Storage, string, error) {
	if cfg.UploadBackend == config.UploadBackendS3 {
		client, err := upload.NewS3Client(context.Background(), upload.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("uploads stored in s3")
		return upload.NewS3Storage(client, cfg.S3Bucket, cfg.S3PublicBaseURL), "", nil
	}

	local, err := upload.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("dir", local.Dir()).Msg("uploads stored on local disk")
	return local, local.Dir(), nil
}
