package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/config"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/mailer"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/search"
	"github.com/fekuna/omnipos-warehouse-service/internal/server"
	"github.com/fekuna/omnipos-warehouse-service/migrations"

	alertH "github.com/fekuna/omnipos-warehouse-service/internal/alert/handler"
	alertRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/alert/repository"
	alertUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/alert/usecase"

	auditH "github.com/fekuna/omnipos-warehouse-service/internal/audit/handler"
	auditRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/audit/repository"
	auditUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/audit/usecase"

	authH "github.com/fekuna/omnipos-warehouse-service/internal/auth/handler"
	authRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/auth/repository"
	authUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/auth/usecase"

	binH "github.com/fekuna/omnipos-warehouse-service/internal/bin/handler"
	binRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/bin/repository"
	binUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/bin/usecase"

	catH "github.com/fekuna/omnipos-warehouse-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/category/usecase"

	locH "github.com/fekuna/omnipos-warehouse-service/internal/location/handler"
	locRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/location/repository"
	locUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/location/usecase"

	movH "github.com/fekuna/omnipos-warehouse-service/internal/movement/handler"
	movListenerPkg "github.com/fekuna/omnipos-warehouse-service/internal/movement/listener"
	movRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/movement/repository"
	movUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/movement/usecase"

	prodH "github.com/fekuna/omnipos-warehouse-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/product/usecase"

	stockH "github.com/fekuna/omnipos-warehouse-service/internal/stock/handler"
	stockRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/stock/repository"
	stockUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/stock/usecase"

	userH "github.com/fekuna/omnipos-warehouse-service/internal/user/handler"
	userRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/user/repository"
	userUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/user/usecase"

	whH "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/handler"
	whRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/repository"
	whUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/usecase"

	zoneH "github.com/fekuna/omnipos-warehouse-service/internal/zone/handler"
	zoneRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/zone/repository"
	zoneUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/zone/usecase"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const healthInterval = 10 * time.Second

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Initialize i18n
	translator, err := i18n.New(cfg.Locale.Default)
	if err != nil {
		appLogger.Fatal("Could not load locales", zap.Error(err))
	}

	// 4. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.AutoMigrate {
		applied, err := postgres.Migrate(ctx, db, migrations.FS)
		if err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied", zap.Strings("files", applied))
	}

	// 5. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search falls back to postgres", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize Kafka
	var publisher broker.Publisher
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventTopic,
		})
		defer producer.Close()
		publisher = producer

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrderTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("order_topic", cfg.Kafka.OrderTopic))
	}

	var mail mailer.Mailer = mailer.NewLogMailer(appLogger)
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(&mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// 8. Initialize Repositories
	auditRepo := auditRepoPkg.NewPGRepository(db)
	userRepo := userRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	whRepo := whRepoPkg.NewPGRepository(db)
	zoneRepo := zoneRepoPkg.NewPGRepository(db)
	binRepo := binRepoPkg.NewPGRepository(db)
	locRepo := locRepoPkg.NewPGRepository(db)
	movRepo := movRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	alertRepo := alertRepoPkg.NewPGRepository(db)

	// 9. Initialize UseCases
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	auditUC := auditUCPkg.NewAuditUseCase(auditRepo, appLogger)
	userUC := userUCPkg.NewUserUseCase(userRepo, auditUC, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, auditUC, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, redisClient, esClient, auditUC, appLogger)
	whUC := whUCPkg.NewWarehouseUseCase(whRepo, userRepo, auditUC, appLogger)
	zoneUC := zoneUCPkg.NewZoneUseCase(zoneRepo, whRepo, auditUC, appLogger)
	binUC := binUCPkg.NewBinUseCase(binRepo, whRepo, zoneRepo, locRepo, auditUC, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, prodRepo, binRepo, auditUC, appLogger)
	alertUC := alertUCPkg.NewAlertUseCase(alertRepo, translator, publisher, auditUC, cfg.Locale.Default, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, alertUC, auditUC, cfg.Stock.LowThreshold, appLogger)

	var otps auth.OTPStore = authRepoPkg.NewMemoryOTPStore()
	var locker movement.Locker
	if redisClient != nil {
		otps = authRepoPkg.NewRedisOTPStore(redisClient)
		locker = redisClient
	}
	authUC := authUCPkg.NewAuthUseCase(userRepo, tokens, otps, mail, translator, auditUC, authUCPkg.Config{
		OTPTTL:   cfg.JWT.OTPTTL,
		Language: cfg.Locale.Default,
	}, appLogger)

	movUC := movUCPkg.NewMovementUseCase(movUCPkg.Deps{
		Repo:       movRepo,
		Products:   prodRepo,
		Warehouses: whRepo,
		Bins:       binRepo,
		Stock:      stockUC,
		Audit:      auditUC,
		Locker:     locker,
		Publisher:  publisher,
		Logger:     appLogger,
	})

	// 10. Initialize Listeners
	if kafkaConsumer != nil {
		orderListener := movListenerPkg.NewOrderListener(kafkaConsumer, movUC, appLogger)
		go orderListener.Start(ctx)
	}

	// 11. Initialize Handlers
	authRateLimit, err := middleware.RateLimit(cfg.RateLimit.Auth)
	if err != nil {
		appLogger.Fatal("Invalid rate limit", zap.String("rate", cfg.RateLimit.Auth), zap.Error(err))
	}

	router := server.NewRouter(server.Options{
		Tokens:        tokens,
		AuthRateLimit: authRateLimit,
		Health:        db.PingContext,
		Logger:        appLogger,
	}, &server.Handlers{
		Auth:       authH.NewAuthHandler(authUC, userUC, appLogger),
		Users:      userH.NewUserHandler(userUC, appLogger),
		Categories: catH.NewCategoryHandler(catUC, appLogger),
		Products:   prodH.NewProductHandler(prodUC, appLogger),
		Warehouses: whH.NewWarehouseHandler(whUC, appLogger),
		Zones:      zoneH.NewZoneHandler(zoneUC, appLogger),
		Bins:       binH.NewBinHandler(binUC, appLogger),
		Locations:  locH.NewLocationHandler(locUC, appLogger),
		Movements:  movH.NewMovementHandler(movUC, appLogger),
		Stock:      stockH.NewStockHandler(stockUC, appLogger),
		Alerts:     alertH.NewAlertHandler(alertUC, appLogger),
		Audit:      auditH.NewAuditHandler(auditUC, appLogger),
	})

	// 12. Start HTTP Server
	httpServer := &http.Server{
		Addr:    normalizePort(cfg.Server.HTTPPort),
		Handler: router,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 13. Start gRPC Health Server
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)
	go watchDatabase(ctx, db, healthServer, appLogger)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// watchDatabase flips the gRPC health status when postgres stops answering.
func watchDatabase(ctx context.Context, db *sqlx.DB, hs *health.Server, log logger.ZapLogger) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, healthInterval/2)
			err := db.PingContext(pingCtx)
			cancel()

			switch {
			case err != nil && serving:
				log.Warn("Database unreachable, reporting NOT_SERVING", zap.Error(err))
				hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
				serving = false
			case err == nil && !serving:
				log.Info("Database reachable again")
				hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
				serving = true
			}
		}
	}
}

func normalizePort(port string) string {
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
