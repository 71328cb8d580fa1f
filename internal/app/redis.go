package app

import (
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/redis"
)

func (app *App) initializeRedis() error {
	if !app.Config.UsesRedis() {
		app.Logger.Info("Redis: Not configured (memory stores, no distributed sync lock)")
		return nil
	}

	redisClient, err := redis.NewClient(&redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDB,
		PoolSize: app.Config.RedisPoolSize,
	})
	if err != nil {
		return errors.ConnectionError("redis is required by the selected stores", err)
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected", logging.Field{"address", app.Config.RedisAddress})
	return nil
}
