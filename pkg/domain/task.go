package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus of a queued toolchain job.
type TaskStatus string

const (
	TaskPending  TaskStatus = "PENDING"
	TaskReceived TaskStatus = "RECEIVED"
	TaskStarted  TaskStatus = "STARTED"
	TaskSuccess  TaskStatus = "SUCCESS"
	TaskFailure  TaskStatus = "FAILURE"
	TaskRevoked  TaskStatus = "REVOKED"
	TaskRejected TaskStatus = "REJECTED"
	TaskRetry    TaskStatus = "RETRY"
	TaskIgnored  TaskStatus = "IGNORED"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

func AsTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskReceived, TaskStarted, TaskSuccess, TaskFailure,
		TaskRevoked, TaskRejected, TaskRetry, TaskIgnored:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("'%s' is not TaskStatus", s)
	}
}

// Done means no worker will touch this task anymore.
func (ts TaskStatus) Done() bool {
	switch ts {
	case TaskSuccess, TaskFailure, TaskRevoked, TaskRejected, TaskIgnored:
		return true
	default:
		return false
	}
}

// TaskKind selects which toolchain pipeline a task runs.
type TaskKind string

const (
	KindCreateCase TaskKind = "create_case"
	KindRunCase    TaskKind = "run_case"
)

func AsTaskKind(s string) (TaskKind, error) {
	switch TaskKind(s) {
	case KindCreateCase, KindRunCase:
		return TaskKind(s), nil
	default:
		return "", fmt.Errorf("'%s' is not TaskKind", s)
	}
}

// Task is one queued toolchain job for a case.
type Task struct {
	TaskId string
	Kind   TaskKind
	CaseId string
	Status TaskStatus

	// free-form success payload of the pipeline.
	Result string

	// failure detail. Empty unless the task failed.
	Error string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Task) Equal(o *Task) bool {
	if (t == nil) || (o == nil) {
		return (t == nil) && (o == nil)
	}
	return t.TaskId == o.TaskId &&
		t.Kind == o.Kind &&
		t.CaseId == o.CaseId &&
		t.Status == o.Status &&
		t.Result == o.Result &&
		t.Error == o.Error &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

// ErrorSummary is the last non-empty line of a task's error text,
// usually the message of the failed subprocess.
func (t *Task) ErrorSummary() string {
	lines := strings.Split(t.Error, "\n")
	for i := len(lines) - 1; 0 <= i; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// TaskView is the task state the API exposes for a case.
// Zero value means the task has not been dispatched.
type TaskView struct {
	TaskId string
	Status TaskStatus
	Result string
	Error  string
}

func (tv TaskView) Equal(o TaskView) bool {
	return tv == o
}

// CaseWithTaskInfo joins a case with its task states, reconciled so that
// a FAILURE task is reflected in the case status.
type CaseWithTaskInfo struct {
	Case

	Create TaskView
	Run    TaskView
}

func (cwt *CaseWithTaskInfo) Equal(o *CaseWithTaskInfo) bool {
	if (cwt == nil) || (o == nil) {
		return (cwt == nil) && (o == nil)
	}
	return cwt.Case.Equal(&o.Case) &&
		cwt.Create.Equal(o.Create) &&
		cwt.Run.Equal(o.Run)
}
