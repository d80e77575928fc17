package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/config"
	"github.com/diwan-maarifa/diwan-backend/internal/handler"
	"github.com/diwan-maarifa/diwan-backend/internal/middleware"
	"github.com/diwan-maarifa/diwan-backend/internal/migration"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/internal/routes"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	pkgcache "github.com/diwan-maarifa/diwan-backend/pkg/cache"
	pkges "github.com/diwan-maarifa/diwan-backend/pkg/elasticsearch"
	"github.com/diwan-maarifa/diwan-backend/pkg/jwt"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
	pkgredis "github.com/diwan-maarifa/diwan-backend/pkg/redis"
	pkgstorage "github.com/diwan-maarifa/diwan-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Diwan al-Maarifa API
// @version         1.0
// @description     Content submission, review and publication workflow
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MySQL is required; every workflow operation is a transaction
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	var searchIndex service.SearchIndex
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, esErr := pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if esErr == nil {
			searchIndex, esErr = service.NewSearchIndex(ctx, esClient, cfg.Elasticsearch.Index)
		}
		if esErr != nil {
			pkglogger.Warn("Elasticsearch unavailable: %v (continuing with database search)", esErr)
			searchIndex = nil
		} else {
			pkglogger.Info("Connected to Elasticsearch")
		}
	}

	var uploader pkgstorage.Uploader
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicURL:       cfg.Storage.PublicURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (continuing without uploads)", s3Err)
		} else {
			uploader = s3Client
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Repositories
	ledger := repository.NewReviewRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db, ledger)
	categoryRepo := repository.NewCategoryRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Services
	workflowService := service.NewWorkflowService(submissionRepo, ledger, categoryRepo)
	publicationService := service.NewPublicationService(submissionRepo, cacheService, searchIndex)
	searchService := service.NewSearchService(submissionRepo, searchIndex)
	categoryService := service.NewCategoryService(categoryRepo, publicationService, cacheService)
	attachmentService := service.NewAttachmentService(attachmentRepo, submissionRepo, uploader, cfg.Upload.MaxBytes())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Upload.MaxBytes()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.SplitOrigins(),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "disabled", "search": "disabled"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "down"
		}
		if cacheService.IsAvailable() {
			checks["redis"] = "ok"
			if err := cacheService.Ping(c.Request.Context()); err != nil {
				checks["redis"] = "down"
			}
		}
		if searchIndex != nil {
			checks["search"] = "ok"
		}
		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "diwan-backend",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Handlers{
		Content:    handler.NewContentHandler(workflowService, publicationService, searchService),
		Review:     handler.NewReviewHandler(workflowService),
		Category:   handler.NewCategoryHandler(categoryService),
		Attachment: handler.NewAttachmentHandler(attachmentService),
	}, jwtManager, redisClient, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		pkglogger.Warn("Graceful shutdown failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initDB opens the MySQL pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}
	mysqlCfg.ParseTime = true
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["charset"] = "utf8mb4"

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
