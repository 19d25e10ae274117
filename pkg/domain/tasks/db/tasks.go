package db

import (
	"context"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

type Interface interface {
	// Submit queues a new task in PENDING status and returns immediately.
	Submit(ctx context.Context, task domain.Task) error

	// Get retrieves a task by its handle.
	//
	// Returns ErrMissing when no such task exists.
	Get(ctx context.Context, taskId string) (domain.Task, error)

	// Claim picks the oldest PENDING task, marks it STARTED and returns it.
	//
	// Claiming is safe across concurrent workers: a task is handed to at
	// most one of them. The second return value is false when the queue
	// is empty.
	Claim(ctx context.Context) (domain.Task, bool, error)

	// Finish records the outcome of a claimed task.
	//
	// status should be terminal (SUCCESS, FAILURE, ...).
	Finish(ctx context.Context, taskId string, status domain.TaskStatus, result string, errText string) error

	// Forget drops a task record. Forgetting an unknown task is not an
	// error.
	Forget(ctx context.Context, taskId string) error
}
