package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/handler"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/cache"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/config"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/middleware"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Resources are the long-lived clients behind the router. Close releases them.
type Resources struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func (r *Resources) Close() {
	if r.Redis != nil {
		r.Redis.Close()
	}
	if r.DB != nil {
		r.DB.Close()
	}
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *Resources, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Open DB pool
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	res := &Resources{DB: pool}
	logger.Info().Int32("max_conns", cfg.DBMaxConns).Msg("Database connection successful")

	// 2. Initialize S3 client for presigned media URLs
	var s3Client *s3.Client
	if cfg.StorageEnabled() {
		s3Client, err = newS3Client(ctx, cfg)
		if err != nil {
			res.Close()
			return nil, nil, err
		}
	} else {
		logger.Warn().Msg("Storage credentials not set; course media stays locked")
	}

	// 3. Initialize entitlement cache
	var entitlementCache cache.EntitlementCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		res.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := res.Redis.Ping(ctx).Err(); err != nil {
			// The cache is optional, so a down Redis only costs latency.
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable at startup")
		}
		entitlementCache = cache.NewRedisEntitlementCache(res.Redis, time.Duration(cfg.EntitlementTTLMin)*time.Minute)
	}

	// 4. Initialize validator and token verifier
	validate := validator.New(validator.WithRequiredStructEnabled())
	verifier, err := util.NewVerifier(cfg.JWTSecret, cfg.JWTPublicKey)
	if err != nil {
		res.Close()
		return nil, nil, fmt.Errorf("jwt verifier: %w", err)
	}

	// 5. Initialize repositories & services & handlers
	courseRepo := repository.NewCourseRepo(pool, logger)
	purchaseRepo := repository.NewPurchaseRepo(pool, cfg.PurchaseEventsQueueName, logger)
	userRepo := repository.NewUserRepo(pool)

	mediaSvc := service.NewMediaService(s3Client, cfg.S3Bucket, time.Duration(cfg.MediaURLExpiryMin)*time.Minute, logger)
	entitlementSvc := service.NewEntitlementService(purchaseRepo, courseRepo, entitlementCache, logger)
	contentSvc := service.NewContentService(courseRepo, entitlementSvc, mediaSvc, logger)
	courseSvc := service.NewCourseService(courseRepo, userRepo, logger)
	userSvc := service.NewUserService(userRepo)

	courseHandler := handler.NewCourseHandler(courseSvc, contentSvc, validate, logger)
	purchaseHandler := handler.NewPurchaseHandler(entitlementSvc, logger)
	userHandler := handler.NewUserHandler(userSvc, validate, logger)

	// 6. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(verifier, logger)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(verifier, logger)

	// 7. Create ServeMux router
	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware, optionalAuthMiddleware)
	purchaseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Redirect /api/* to /v1/* for backward compatibility
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	// 8. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), res, nil
}

// NewPool opens and pings the Postgres pool.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(withDevSSL(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = cfg.DBMaxConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	// Transaction poolers like pgbouncer break server-side prepared statements.
	if !cfg.IsDevelopment() {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// withDevSSL disables SSL for local Supabase unless the DSN says otherwise.
func withDevSSL(cfg *config.Config) string {
	dsn := cfg.DBConnectionString
	if !cfg.IsDevelopment() || strings.Contains(dsn, "sslmode") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=disable"
		}
		return dsn + "?sslmode=disable"
	}
	return dsn + " sslmode=disable"
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("load S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
