package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/kevinaaaquil/compro/config"
	"github.com/kevinaaaquil/compro/handlers"
	"github.com/kevinaaaquil/compro/middleware"
	"github.com/kevinaaaquil/compro/service"
	"github.com/kevinaaaquil/compro/store"
	"github.com/kevinaaaquil/compro/store/postgres"
	"github.com/kevinaaaquil/compro/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	logger, err := utils.NewLogger(utils.LogConfig{
		Level:      cfg.LogLevel,
		Dev:        cfg.LogDev,
		File:       cfg.LogFile,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if err := utils.SetSnowflakeNode(cfg.SnowflakeNode); err != nil {
		log.Fatalw("snowflake node", "node", cfg.SnowflakeNode, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalw("store", "driver", cfg.StoreDriver, "error", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Warnw("store close", "error", err)
		}
	}()

	// media stays a nil interface when S3 is not configured
	var media handlers.MediaStorage
	if cfg.S3Bucket != "" {
		s3Service, err := service.NewS3Service(context.Background(), service.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalw("s3", "error", err)
		}
		media = s3Service
	} else {
		log.Warn("AWS_S3_BUCKET not set; uploads and media are disabled")
	}

	var mailer handlers.WelcomeMailer
	if cfg.SMTPHost != "" {
		mailer = service.NewMailer(service.SMTPOptions{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, "")
	}

	pages, err := handlers.NewPages(cfg.StaticDir)
	if err != nil {
		log.Fatalw("static dir", "dir", cfg.StaticDir, "error", err)
	}

	maxUpload := cfg.MaxUploadMB * 1024 * 1024
	upload := &handlers.UploadHandler{Media: media, MaxBytes: maxUpload, Log: log.Named("upload")}
	auth := &handlers.AuthHandler{
		Store:        db,
		JWTSecret:    cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Mailer:       mailer,
		Log:          log.Named("auth"),
	}
	api := &handlers.API{
		Auth:       auth,
		Users:      &handlers.UsersHandler{Store: db, Log: log.Named("users")},
		Posts:      &handlers.PostsHandler{Store: db, Log: log.Named("posts")},
		Categories: &handlers.CategoriesHandler{Store: db, Log: log.Named("categories")},
		Website:    &handlers.WebsiteHandler{Store: db, Media: media, MaxBytes: maxUpload, Log: log.Named("website")},
		Upload:     upload,
		JWTSecret:  cfg.JWTSecret,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.Get("/health", handlers.Health(db))
	r.Mount("/api", api.Routes())
	r.Get("/media/*", upload.ServeMedia)
	r.With(middleware.Guard(middleware.DefaultGuardRules(), cfg.JWTSecret)).Handle("/*", pages)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("server listening", cfg.Summary()...)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("shutdown", "error", err)
	}
	if err := auth.Wait(shutdownCtx); err != nil {
		log.Warnw("pending welcome mails dropped", "error", err)
	}
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		})
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close(ctx)
			return nil, err
		}
		return db, nil
	default:
		db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			db.Close(ctx)
			return nil, err
		}
		return db, nil
	}
}
