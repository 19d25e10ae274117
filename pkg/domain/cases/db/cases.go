package db

import (
	"context"
	"errors"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

// Register found an existing case with the same id.
var ErrCaseExists = errors.New("case already exists")

type Interface interface {
	// Register persists a new case in its initial status.
	//
	// The case id is the primary key, so of two concurrent Registers with
	// the same id exactly one wins. The loser receives ErrCaseExists and
	// should fall back to Get.
	Register(ctx context.Context, c domain.Case) error

	// Get retrieves a case by id.
	//
	// Returns ErrMissing when no such case exists.
	Get(ctx context.Context, caseId string) (domain.Case, error)

	// GetAll retrieves every case, newest first.
	GetAll(ctx context.Context) ([]domain.Case, error)

	// SetStatus moves the case to newStatus.
	//
	// Returns ErrInvalidCaseStateChanging when the case's current status
	// does not allow the transition, ErrMissing when the case is not found.
	SetStatus(ctx context.Context, caseId string, newStatus domain.CaseStatus) error

	// SetTaskId records the task handle of the given phase on the case.
	SetTaskId(ctx context.Context, caseId string, kind domain.TaskKind, taskId string) error

	// Delete removes the case record. Tasks pointing at it go away with
	// it. Deleting a case which does not exist is not an error.
	Delete(ctx context.Context, caseId string) error
}
