package internal

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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"manager-account-api/config"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/application/services"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/cache"
	memaccount "manager-account-api/internal/infrastructure/db/memory/account"
	"manager-account-api/internal/infrastructure/db/mongodb"
	mongoaccount "manager-account-api/internal/infrastructure/db/mongodb/account"
	"manager-account-api/internal/infrastructure/db/postgres"
	pgaccount "manager-account-api/internal/infrastructure/db/postgres/account"
	"manager-account-api/internal/infrastructure/jwt"
	"manager-account-api/internal/infrastructure/metrics"
	"manager-account-api/internal/infrastructure/mq"
	"manager-account-api/internal/infrastructure/s3"
	"manager-account-api/internal/interface/api/rest"
	"manager-account-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	repo       account.Repository
	mongo      *mongo.Client
	db         *pgxpool.Pool
	redis      *redis.Client
	limiter    ports.LoginLimiter
	storage    ports.ObjectStorage
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	events     ports.EventPublisher
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &App{
		logger:   logger,
		cfg:      cfg,
		mCounter: metrics.NewCounter(),
		events:   mq.NopPublisher{},
		limiter:  cache.NopLimiter{},
		storage:  s3.Discard{},
	}

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = rest.NewRouter(logger, a.mCounter)

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// store
	if err = a.initStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// redis
	if cfg.Redis.Addr != "" {
		a.redis, err = cache.New(ctx, logger, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.limiter = cache.NewLoginLimiter(a.redis, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	} else {
		logger.Warn("REDIS_ADDR is not set, login throttling disabled")
	}

	// s3
	if cfg.Image.Bucket != "" {
		storage, err := s3.New(ctx, logger, cfg.Image)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.storage = storage
	} else {
		logger.Warn("S3_BUCKET_UPLOADS is not set, profile images are not persisted")
	}

	// rabbitMQ
	if cfg.MQEnabled() {
		if err = a.initMQ(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		dsn, err := a.cfg.DBDSN()
		if err != nil {
			return fmt.Errorf("DB config error: %w", err)
		}
		a.db, err = postgres.New(ctx, a.logger, dsn)
		if err != nil {
			return err
		}
		repo := pgaccount.NewRepository(a.db)
		if err = repo.Migrate(ctx); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		a.repo = repo
	case config.StoreMemory:
		a.logger.Warn("using in-memory account store, data is lost on restart")
		a.repo = memaccount.NewRepository()
	default:
		client, db, err := mongodb.New(ctx, a.logger, a.cfg.Mongo.URI, a.cfg.Mongo.Database)
		if err != nil {
			return err
		}
		a.mongo = client
		repo := mongoaccount.NewRepository(db)
		if err = repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		a.repo = repo
	}

	return nil
}

func (a *App) initMQ(ctx context.Context) error {
	dsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, dsn); err != nil {
		return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("failed init rabbitMQ: %w", err)
	}
	a.events = rbMQ

	// rmqConsumer
	consumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn(), mq.RoutingKeys)
	if err = consumer.Connect(dsn); err != nil {
		return fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	if err = consumer.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}
	a.mqConsumer = consumer

	return nil
}

func (a *App) Close() {
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error("mongo disconnect", zap.Error(err))
		}
		cancel()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	credentials := services.NewCredentialService(jwtService, a.cfg.App.BcryptCost, a.cfg.App.TokenTTL)
	images := services.NewProfileImageService(a.storage, a.cfg.Image.Folder, a.cfg.Image.PathPrefix, a.mCounter)
	accountService := services.NewAccountService(
		a.repo,
		credentials,
		images,
		a.events,
		a.limiter,
		a.mCounter,
		a.logger,
	)

	// controllers
	rest.NewAccountController(a.router, accountService, credentials, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
