package http

import (
	"time"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
)

// taskResponse is the JSON shape of a task on every task endpoint.
// reminder_interval is emitted as null when unset, matching what clients of
// the API already expect.
type taskResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Completed        bool      `json:"completed"`
	ReminderInterval *int64    `json:"reminder_interval"`
	CreatedAt        time.Time `json:"created_at"`
}

func newTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Completed:        t.Completed,
		ReminderInterval: t.ReminderInterval,
		CreatedAt:        t.CreatedAt,
	}
}

func newTaskListResponse(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
