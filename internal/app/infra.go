package app

import (
	"context"

	"github.com/salemmohdmohd/directory-for-charities/internal/config"
	"github.com/salemmohdmohd/directory-for-charities/internal/db"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
	"github.com/salemmohdmohd/directory-for-charities/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(database); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}
