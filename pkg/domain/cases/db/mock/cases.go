package mock

import (
	"context"
	"errors"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/cases/db"
	dbmock "github.com/noresmhub/ctsm-api/pkg/domain/internal/db/mock"
)

type CaseInterface struct {
	Impl struct {
		Register  func(ctx context.Context, c domain.Case) error
		Get       func(ctx context.Context, caseId string) (domain.Case, error)
		GetAll    func(ctx context.Context) ([]domain.Case, error)
		SetStatus func(ctx context.Context, caseId string, newStatus domain.CaseStatus) error
		SetTaskId func(ctx context.Context, caseId string, kind domain.TaskKind, taskId string) error
		Delete    func(ctx context.Context, caseId string) error
	}

	Calls struct {
		Register  dbmock.CallLog[domain.Case]
		Get       dbmock.CallLog[string]
		GetAll    dbmock.CallLog[struct{}]
		SetStatus dbmock.CallLog[struct {
			CaseId    string
			NewStatus domain.CaseStatus
		}]
		SetTaskId dbmock.CallLog[struct {
			CaseId string
			Kind   domain.TaskKind
			TaskId string
		}]
		Delete dbmock.CallLog[string]
	}
}

func NewCaseInterface() *CaseInterface {
	return &CaseInterface{}
}

var _ kdb.Interface = &CaseInterface{}

func (m *CaseInterface) Register(ctx context.Context, c domain.Case) error {
	m.Calls.Register = append(m.Calls.Register, c)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, c)
	}
	panic(errors.New("it should not be called"))
}

func (m *CaseInterface) Get(ctx context.Context, caseId string) (domain.Case, error) {
	m.Calls.Get = append(m.Calls.Get, caseId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, caseId)
	}
	panic(errors.New("it should not be called"))
}

func (m *CaseInterface) GetAll(ctx context.Context) ([]domain.Case, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *CaseInterface) SetStatus(ctx context.Context, caseId string, newStatus domain.CaseStatus) error {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		CaseId    string
		NewStatus domain.CaseStatus
	}{CaseId: caseId, NewStatus: newStatus})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, caseId, newStatus)
	}
	panic(errors.New("it should not be called"))
}

func (m *CaseInterface) SetTaskId(ctx context.Context, caseId string, kind domain.TaskKind, taskId string) error {
	m.Calls.SetTaskId = append(m.Calls.SetTaskId, struct {
		CaseId string
		Kind   domain.TaskKind
		TaskId string
	}{CaseId: caseId, Kind: kind, TaskId: taskId})
	if m.Impl.SetTaskId != nil {
		return m.Impl.SetTaskId(ctx, caseId, kind, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *CaseInterface) Delete(ctx context.Context, caseId string) error {
	m.Calls.Delete = append(m.Calls.Delete, caseId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, caseId)
	}
	panic(errors.New("it should not be called"))
}
