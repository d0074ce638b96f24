package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"pdfqa/internal/ai"
	"pdfqa/internal/app"
	"pdfqa/internal/cache"
	"pdfqa/internal/config"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/pdfextract"
	mongoClient "pdfqa/internal/platform/mongo"
	mysqlClient "pdfqa/internal/platform/mysql"
	rabbitmqClient "pdfqa/internal/platform/rabbitmq"
	redisClient "pdfqa/internal/platform/redis"
	"pdfqa/internal/repository"
	"pdfqa/internal/worker"
)

type App struct {
	Config       *config.Config
	Documents    *app.DocumentService
	HealthChecks map[string]func(ctx context.Context) error

	Mongo           *mongodriver.Client
	MySQL           *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	Provider        ai.Provider
	CacheWarmWorker *worker.CacheWarmWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	a := &App{
		Config:       cfg,
		HealthChecks: map[string]func(ctx context.Context) error{},
		StartedAt:    time.Now(),
	}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.HealthChecks[cfg.Store.Backend] = repo.Ping

	var (
		docCache  app.DocumentCache
		publisher app.DocumentEventPublisher
	)
	var warmCache *cache.DocumentCache
	if cfg.Redis.Addr != "" {
		a.Redis, err = redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		warmCache = cache.NewDocumentCache(a.Redis, time.Duration(cfg.Redis.DocumentTTLSeconds)*time.Second)
		docCache = warmCache
		a.HealthChecks["redis"] = warmCache.Ping
	}

	if cfg.RabbitMQ.URL != "" {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.DocumentEventQueue)
		if err != nil {
			return err
		}
		docPublisher := rabbitmqClient.NewDocumentPublisher(a.MQConn, cfg.RabbitMQ.DocumentEventQueue)
		publisher = docPublisher
		a.HealthChecks["rabbitmq"] = docPublisher.Ping

		if warmCache != nil {
			a.CacheWarmWorker = worker.NewCacheWarmWorker(a.MQConn, repo, warmCache, cfg.RabbitMQ.DocumentEventQueue)
			if err := a.CacheWarmWorker.Start(ctx); err != nil {
				return fmt.Errorf("start cache warm worker failed: %w", err)
			}
		}
	}

	a.Provider, err = ai.NewProvider(ctx, ai.Config{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("create llm provider failed: %w", err)
	}

	a.Documents = app.NewDocumentService(repo, docCache, publisher, pdfextract.Extractor{}, a.Provider, app.DocumentServiceOptions{
		TempDir:          cfg.Upload.TempDir,
		MaxUploadBytes:   cfg.Upload.MaxBytes,
		MaxDocumentChars: cfg.Prompt.MaxDocumentChars,
		GenerateTimeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})

	log.Info().
		Str("store", cfg.Store.Backend).
		Bool("cache", docCache != nil).
		Bool("events", publisher != nil).
		Str("llm_provider", cfg.LLM.Provider).
		Msg("application initialized")
	return nil
}

func (a *App) openStore(ctx context.Context) (app.DocumentRepository, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.StoreMySQL:
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN(), &model.Document{})
		if err != nil {
			return nil, err
		}
		a.MySQL = db
		return repository.NewGormDocumentRepository(db), nil
	default:
		client, err := mongoClient.New(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		a.Mongo = client
		collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return repository.NewMongoDocumentRepository(collection), nil
	}
}

func (a *App) Close() error {
	var errs []error
	if a.CacheWarmWorker != nil {
		a.CacheWarmWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.MySQL != nil {
		if sqlDB, err := a.MySQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
