package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/llm"
	"github.com/yungbote/learnpath-backend/internal/platform/lock"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Clients struct {
	DB        *gorm.DB
	Redis     *goredis.Client
	Locker    lock.Locker
	Generator llm.Generator
}

func openDatabase(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		svc, err := db.NewSQLiteService(log, cfg.SQLitePath, false)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return nil, fmt.Errorf("sqlite automigrate: %w", err)
		}
		return svc.DB(), nil
	case "", "postgres":
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.AutoMigrateAll(); err != nil {
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		return pg.DB(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// unavailableGenerator answers every prompt with the error that kept the provider from starting.
type unavailableGenerator struct{ err error }

func (g unavailableGenerator) Generate(context.Context, string) (string, error) { return "", g.err }

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	theDB, err := openDatabase(log, cfg)
	if err != nil {
		return Clients{}, err
	}

	// Redis
	var (
		rdb    *goredis.Client
		locker lock.Locker = lock.Nop{}
	)
	if cfg.RedisAddr != "" {
		rdb, err = lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("Redis unavailable, quiz generation lock disabled", "error", err)
			rdb = nil
		} else {
			locker = lock.NewRedisLocker(log, rdb, "learnpath:lock:", cfg.QuizLockTTL, cfg.QuizLockTTL)
		}
	}

	// LLM
	var generator llm.Generator
	fallback, err := llm.New(ctx, log, cfg.LLM)
	if err != nil {
		log.Error("LLM provider unavailable, AI endpoints will fail", "error", err)
		generator = unavailableGenerator{err: fmt.Errorf("llm provider unavailable: %w", err)}
	} else {
		log.Info("LLM provider ready", "provider", cfg.LLM.Provider, "models", fallback.Models())
		generator = fallback.WithObserver(metrics.ObserveLLMAttempt)
	}

	return Clients{DB: theDB, Redis: rdb, Locker: locker, Generator: generator}, nil
}

func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
