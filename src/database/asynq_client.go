package database

import (
	"github.com/hibiken/asynq"
)

// AsynqRedisOpt returns the asynq connection options sharing the Redis settings.
func (r *Redis) AsynqRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     r.opts.Addr,
		Password: r.opts.Password,
		DB:       r.opts.DB,
	}
}

// NewAsynqClient creates an asynq client only if Redis is available.
func NewAsynqClient(r *Redis) *asynq.Client {
	if r == nil {
		return nil
	}
	return asynq.NewClient(r.AsynqRedisOpt())
}
