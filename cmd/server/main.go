package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
	"github.com/tendant/simple-ingest/pkg/mediaingest/api"
	psqlrepo "github.com/tendant/simple-ingest/pkg/mediaingest/repo/postgres"
	"github.com/tendant/simple-ingest/pkg/mediaingest/storage/s3"
)

type Config struct {
	DB           DbConfig
	S3           S3Config
	Webhook      WebhookConfig
	Cleanup      CleanupConfig
	ApiKeySHA256 string `env:"API_KEY_SHA256" env-default:"1"`
}

type DbConfig struct {
	Port     uint16 `env:"INGEST_PG_PORT" env-default:"5432"`
	Host     string `env:"INGEST_PG_HOST" env-default:"localhost"`
	Name     string `env:"INGEST_PG_NAME" env-default:"ingest_db"`
	User     string `env:"INGEST_PG_USER" env-default:"ingest"`
	Password string `env:"INGEST_PG_PASSWORD" env-default:"pwd"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"media-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:9000"`
}

type WebhookConfig struct {
	JWTAlg      string `env:"WEBHOOK_JWT_ALG" env-default:"HS256"`
	JWTKey      string `env:"WEBHOOK_JWT_KEY" env-default:""`
	JWTIssuer   string `env:"WEBHOOK_JWT_ISSUER" env-default:""`
	JWTAudience string `env:"WEBHOOK_JWT_AUDIENCE" env-default:""`
}

type CleanupConfig struct {
	QueueSize int `env:"CLEANUP_QUEUE_SIZE" env-default:"64"`
	Workers   int `env:"CLEANUP_WORKERS" env-default:"2"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

func NewDbPool(ctx context.Context, dbConfig DbConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbConfig.toDatabaseUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func main() {
	// Load configuration
	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}
	apiKeyConfig := middleware.ApiKeyConfig{
		APIKeys: map[string]string{
			"key1": config.ApiKeySHA256,
		},
	}

	// Initialize database connection
	ctx := context.Background()
	dbPool, err := NewDbPool(ctx, config.DB)
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repo := psqlrepo.NewWithPool(dbPool)

	// Initialize S3 object store
	store, err := s3.New(s3.Config{
		Endpoint:        config.S3.Endpoint,
		AccessKeyID:     config.S3.AccessKeyID,
		SecretAccessKey: config.S3.SecretAccessKey,
		Bucket:          config.S3.BucketName,
		Region:          config.S3.Region,
		UsePathStyle:    config.S3.UsePathStyle,
	})
	if err != nil {
		slog.Error("Failed to initialize S3 store", "err", err)
		os.Exit(1)
	}

	urls := mediaingest.NewBucketURLStrategy(config.S3.PublicBaseURL, config.S3.BucketName)

	cleaner := mediaingest.NewCleaner(repo, store, urls, mediaingest.CleanerConfig{
		QueueSize: config.Cleanup.QueueSize,
		Workers:   config.Cleanup.Workers,
	}, slog.Default())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cleaner.Shutdown(shutdownCtx); err != nil {
			slog.Error("Cleanup worker shutdown", "err", err)
		}
	}()

	svc, err := mediaingest.New(
		mediaingest.WithRepository(repo),
		mediaingest.WithURLStrategy(urls),
		mediaingest.WithOwnerLink(mediaingest.PurposeUserProfilePhoto, mediaingest.UserPhotoLink{Users: repo}),
		mediaingest.WithOwnerLink(mediaingest.PurposeHeadlineImage, mediaingest.HeadlineImageLink{Headlines: repo}),
		mediaingest.WithCleanupQueue(cleaner),
	)
	if err != nil {
		slog.Error("Failed to create service", "err", err)
		os.Exit(1)
	}

	verifier := api.NewBearerVerifier(
		config.Webhook.JWTAlg,
		[]byte(config.Webhook.JWTKey),
		config.Webhook.JWTIssuer,
		config.Webhook.JWTAudience,
	)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	// Initialize API handlers
	pushHandler := api.NewPushWebhookHandler(svc, verifier)
	s3Handler := api.NewS3WebhookHandler(svc, nil)
	assetsHandler := api.NewAssetsHandler(svc)

	// Webhook endpoints authenticate per provider, not via the API key.
	server.R.Route("/webhooks", func(r chi.Router) {
		r.Mount("/storage-push", pushHandler.Routes())
		r.Mount("/storage-events", s3Handler.Routes())
	})

	apiKeyMiddleware, err := middleware.ApiKeyMiddleware(apiKeyConfig)
	if err != nil {
		slog.Error("Failed initialize API Key middleware", "err", err)
		return
	}
	server.R.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			r.Mount("/assets", assetsHandler.Routes())
		})
	})

	// Start server
	server.Run()
}
