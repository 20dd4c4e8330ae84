// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data.
//
// Services report outcomes with the sentinel errors of package model;
// repository.ErrNotFound never crosses this layer.
package service

import (
	"context"

	loggerPkg "github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskEnqueuer schedules background tasks. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// enqueue schedules task when an enqueuer is configured. Failures are
// logged and never fail the caller's operation.
func enqueue(ctx context.Context, jobs TaskEnqueuer, logger *zerolog.Logger, task *asynq.Task, buildErr error) {
	if jobs == nil {
		return
	}
	logger = loggerPkg.FromContext(ctx, logger)

	if buildErr != nil {
		logger.Error().Err(buildErr).Msg("failed to build background task")
		return
	}

	info, err := jobs.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error().Err(err).Str("task", task.Type()).Msg("failed to enqueue background task")
		return
	}

	logger.Debug().
		Str("task", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("background task enqueued")
}
