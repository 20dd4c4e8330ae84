package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names stored in Redis. Asynq routes on these strings.
const (
	TaskWelcome       = "email:welcome"
	TaskParticipation = "email:participation"
)

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
}

// ParticipationEmailPayload is the JSON payload of a TaskParticipation task.
type ParticipationEmailPayload struct {
	To          string    `json:"to"`
	FirstName   string    `json:"first_name"`
	SessionID   int64     `json:"session_id"`
	SessionName string    `json:"session_name"`
	SessionDate time.Time `json:"session_date"`
}

// NewWelcomeEmailTask builds a task that greets a new user.
//
// Tasks retry 3 times on the default queue and are killed after 30s.
func NewWelcomeEmailTask(to, firstName string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:        to,
		FirstName: firstName,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewParticipationEmailTask builds a task that confirms a session booking.
// Confirmations are not urgent and go to the low queue.
func NewParticipationEmailTask(p ParticipationEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskParticipation,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
