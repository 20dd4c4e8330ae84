// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) with asynq.Client.
//   - A server runs workers that process those tasks (consumer) with asynq.Server.
package job

import (
	"time"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer sends the emails behind the task handlers.
type Mailer interface {
	SendWelcomeEmail(to, firstName string) error
	SendParticipationEmail(to, firstName, sessionName string, sessionDate time.Time) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger
	mailer Mailer
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks the largest share of the 10 workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Mux routes every task type to its handler.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskParticipation, j.handleParticipationEmailTask)
	return mux
}

// Start starts the background worker server. It does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return err
	}

	return nil
}

// Stop waits for in-flight tasks, stops the workers and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
