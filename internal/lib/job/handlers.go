package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/deppfellow/gym-sessions/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InitHandlers builds the Resend-backed mailer used by the task handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.SetMailer(email.NewClient(cfg, logger))
}

// SetMailer replaces the mailer used by the task handlers.
func (j *JobService) SetMailer(m Mailer) {
	j.mailer = m
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Processing welcome email task")

	if err := j.mailer.SendWelcomeEmail(p.To, p.FirstName); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send welcome email")
		return err
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Successfully sent welcome email")

	return nil
}

func (j *JobService) handleParticipationEmailTask(ctx context.Context, t *asynq.Task) error {
	var p ParticipationEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal participation email payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", "participation").
		Str("to", p.To).
		Int64("session_id", p.SessionID).
		Logger()

	log.Info().Msg("Processing participation email task")

	if err := j.mailer.SendParticipationEmail(p.To, p.FirstName, p.SessionName, p.SessionDate); err != nil {
		log.Error().Err(err).Msg("Failed to send participation email")
		return err
	}

	log.Info().Msg("Successfully sent participation email")
	return nil
}
