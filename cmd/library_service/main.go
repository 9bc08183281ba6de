package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "video_library_service/cmd/library_service/docs" // 引入生成的 Swagger 文档
	"video_library_service/internal/library/api/handlers"
	"video_library_service/internal/library/api/router"
	"video_library_service/internal/library/app"
	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/repository"
	"video_library_service/internal/library/resilience"
	"video_library_service/pkg/config"
	"video_library_service/pkg/database"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/metrics"
	testtool "video_library_service/pkg/test_tool"

	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.LibraryService, config.EnvConfig.LibraryServiceLogPath)
	defer logger.Log.Sync()

	cfg := config.LoadConfig[config.Library](config.EnvConfig.LibraryService, config.EnvConfig.LibraryServiceYAMLPath)
	if cfg.Pprof {
		testtool.StartPprof()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. 連線 PostgreSQL，catalog 走 gorm，觀看與收藏走 pgx
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	pgConn := database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	}
	gormDB, err := database.NewPGConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.PostgreSQL.Host, cfg.PostgreSQL.Port)), zap.Error(err))
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	catalogRepo := repository.NewCatalogRepository(gormDB)
	if err := catalogRepo.AutoMigrate(); err != nil {
		log.Fatalf("資料表遷移失敗: %v", err)
	}
	activityRepo := repository.NewActivityRepository(pool)
	if err := activityRepo.Migrate(ctx); err != nil {
		log.Fatalf("activity 資料表遷移失敗: %v", err)
	}

	// 2. Redis
	masterName, sentinelAddrs := config.GetRedisSetting()
	rdb, err := database.NewRedisClient(database.RedisConnection{
		Addr:          cfg.Redis.Addr,
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		DB:            cfg.Redis.RedisDB,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// 3. MongoDB 偏好設定
	mongoDB, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port),
		RetryCount:    cfg.MongoSQL.RetryCount,
		RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
	}, cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongo", zap.Error(err))
	}
	defer mongoDB.Close(context.Background())

	mongoPrefs := repository.NewMongoPreferencesRepository(mongoDB.Database)
	if err := mongoPrefs.EnsureIndexes(ctx); err != nil {
		log.Fatalf("建立偏好索引失敗: %v", err)
	}
	prefsRepo := repository.NewCachedPreferencesRepository(mongoPrefs,
		database.NewRedisRepository[domain.Preferences](rdb), cfg.Redis.PrefsTTL)

	// 4. MinIO 簽名網址
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}
	signer := repository.NewMediaSigner(minioClient, cfg.MinIO.URLExpiry)

	// 5. Kafka 觀看事件
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.KafKa.Brokers,
		Topic:         cfg.KafKa.Topic,
		RetryCount:    cfg.KafKa.RetryCount,
		RetryInterval: cfg.KafKa.RetryInterval,
	})
	if err != nil {
		log.Fatalf("Kafka Writer 建立失敗: %v", err)
	}
	publisher := repository.NewKafkaPublisher(kafkaWriter)
	defer publisher.Close()

	// 6. gRPC health，catalog 斷路器打開時回報 NOT_SERVING
	health := database.NewHealthServer(config.EnvConfig.LibraryService)
	go func() {
		if err := health.Serve(cfg.IP + ":" + cfg.GRPCPort); err != nil {
			logger.Log.Error("gRPC health server stopped", zap.Error(err))
		}
	}()
	defer health.Stop()

	breaker := resilience.NewBreaker(cfg.Resilience.FailureThreshold, cfg.Resilience.Cooldown,
		resilience.WithStateChange(func(from, to resilience.State) {
			logger.Log.Warn("catalog breaker state changed", zap.String("from", string(from)), zap.String("to", string(to)))
			metrics.SetBreakerOpen(app.CatalogKey, to == resilience.StateOpen)
			health.SetServing(to == resilience.StateClosed)
		}))
	fetcher := resilience.NewFetcher(app.CatalogKey, breaker,
		resilience.NewFreshCache[app.Catalog](cfg.Resilience.CacheTTL, time.Now),
		resilience.NewFallbackStore[app.Catalog](time.Now),
	)

	counter := app.NewViewCounter(activityRepo, repository.NewViewCountCache(rdb), cfg.Redis.CountTTL,
		uint32(resilience.DefaultFailureThreshold), resilience.DefaultCooldown)

	usecase := app.NewLibraryUseCase(catalogRepo, activityRepo, counter, prefsRepo, signer, publisher, fetcher,
		app.Options{FetchTimeout: cfg.Library.FetchTimeout})

	// 7. RabbitMQ catalog 異動通知
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: cfg.RabbitMQ.RetryInterval,
	})
	if err != nil {
		log.Fatalf("RabbitMQ 連線失敗: %v", err)
	}
	defer rabbitConn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.RabbitMQ.RetryCount, cfg.RabbitMQ.RetryInterval)
	if err != nil {
		log.Fatalf("取得 RabbitMQ Channel 失敗: %v", err)
	}
	defer rabbitChannel.Close()

	consumer := app.NewRefreshConsumer(database.NewRabbitRepository(rabbitChannel), usecase, cfg.RabbitMQ.Queue)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Log.Error("refresh consumer stopped", zap.Error(err))
		}
	}()

	// 8. Fiber
	r := router.NewApp()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.LibraryServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		handlers.NewLibraryHandler(usecase),
		handlers.NewLiveHandler(usecase, cfg.Library.SearchDebounce),
	)

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down library service")
		if err := r.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Log.Warn("fiber shutdown", zap.Error(err))
		}
	}()

	// 預熱 catalog，失敗只會讓第一次查詢走降級
	usecase.Load(ctx, domain.Guest())

	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
