package mock

import (
	"context"
	"errors"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	dbmock "github.com/noresmhub/ctsm-api/pkg/domain/internal/db/mock"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
)

type TaskInterface struct {
	Impl struct {
		Submit func(ctx context.Context, task domain.Task) error
		Get    func(ctx context.Context, taskId string) (domain.Task, error)
		Claim  func(ctx context.Context) (domain.Task, bool, error)
		Finish func(ctx context.Context, taskId string, status domain.TaskStatus, result string, errText string) error
		Forget func(ctx context.Context, taskId string) error
	}

	Calls struct {
		Submit dbmock.CallLog[domain.Task]
		Get    dbmock.CallLog[string]
		Claim  dbmock.CallLog[struct{}]
		Finish dbmock.CallLog[struct {
			TaskId  string
			Status  domain.TaskStatus
			Result  string
			ErrText string
		}]
		Forget dbmock.CallLog[string]
	}
}

func NewTaskInterface() *TaskInterface {
	return &TaskInterface{}
}

var _ kdb.Interface = &TaskInterface{}

func (m *TaskInterface) Submit(ctx context.Context, task domain.Task) error {
	m.Calls.Submit = append(m.Calls.Submit, task)
	if m.Impl.Submit != nil {
		return m.Impl.Submit(ctx, task)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Get(ctx context.Context, taskId string) (domain.Task, error) {
	m.Calls.Get = append(m.Calls.Get, taskId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Claim(ctx context.Context) (domain.Task, bool, error) {
	m.Calls.Claim = append(m.Calls.Claim, struct{}{})
	if m.Impl.Claim != nil {
		return m.Impl.Claim(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Finish(ctx context.Context, taskId string, status domain.TaskStatus, result string, errText string) error {
	m.Calls.Finish = append(m.Calls.Finish, struct {
		TaskId  string
		Status  domain.TaskStatus
		Result  string
		ErrText string
	}{TaskId: taskId, Status: status, Result: result, ErrText: errText})
	if m.Impl.Finish != nil {
		return m.Impl.Finish(ctx, taskId, status, result, errText)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Forget(ctx context.Context, taskId string) error {
	m.Calls.Forget = append(m.Calls.Forget, taskId)
	if m.Impl.Forget != nil {
		return m.Impl.Forget(ctx, taskId)
	}
	panic(errors.New("it should not be called"))
}
