// Package cases implements the request-path logic of the case API:
// validation, identity, dedup, and the task-status view.
package cases

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/cases/db"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases/identity"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases/validate"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	tdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
	"github.com/noresmhub/ctsm-api/pkg/domain/toolchain"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
)

// Definition is a client's request for a case, before validation.
type Definition struct {
	Name      string
	Compset   string
	Res       string
	Driver    domain.CTSMDriver
	DataUrl   string
	Variables []validate.RawVariable
}

// ErrNotRunnable rejects a run request for a case whose create phase
// has not reached CONFIGURED.
var ErrNotRunnable = errors.New("case is not ready to run")

type Service struct {
	registry  *registry.Registry
	cases     kdb.Interface
	tasks     tdb.Interface
	toolchain *toolchain.Toolchain
	ctsmTag   string
	logger    *log.Logger

	now       func() time.Time
	newTaskId func() string
}

func New(
	reg *registry.Registry,
	cases kdb.Interface,
	tasks tdb.Interface,
	tc *toolchain.Toolchain,
	ctsmTag string,
	logger *log.Logger,
) *Service {
	return &Service{
		registry:  reg,
		cases:     cases,
		tasks:     tasks,
		toolchain: tc,
		ctsmTag:   ctsmTag,
		logger:    logger,
		now:       time.Now,
		newTaskId: uuid.NewString,
	}
}

// CreateOrReuse validates def, derives the case id and returns the case
// with that id, creating it and dispatching the create-phase task if it
// does not exist yet.
//
// A second identical request is idempotent: while the first is in
// progress or after it succeeded, the existing case is returned
// untouched. A FAILED case is removed and recreated instead.
//
// Returns *validate.Error for invalid variables.
func (s *Service) CreateOrReuse(ctx context.Context, def Definition) (domain.CaseWithTaskInfo, error) {
	variables, err := validate.Against(s.registry, def.Variables)
	if err != nil {
		return domain.CaseWithTaskInfo{}, err
	}

	caseId := identity.ComputeId(
		def.Compset, def.Res, variables, def.DataUrl, def.Driver, s.ctsmTag,
	)

	existing, err := s.cases.Get(ctx, caseId)
	switch {
	case err == nil:
		if existing.Status != domain.Failed {
			return s.WithTaskInfo(ctx, existing)
		}
		// failed cases are retried by full recreation.
		if err := s.Remove(ctx, caseId); err != nil {
			return domain.CaseWithTaskInfo{}, err
		}
	case errors.Is(err, domerr.ErrMissing):
		// fallthrough to creation
	default:
		return domain.CaseWithTaskInfo{}, err
	}

	newCase := domain.Case{
		CaseBody: domain.CaseBody{
			Id:        caseId,
			Name:      def.Name,
			Compset:   def.Compset,
			Res:       def.Res,
			Driver:    def.Driver,
			DataUrl:   def.DataUrl,
			CtsmTag:   s.ctsmTag,
			Status:    domain.Initialised,
			CreatedAt: s.now(),
		},
		Variables: variables,
	}
	newCase.Env = map[string]string{
		domain.EnvCaseFolderName: newCase.FolderName(),
		domain.EnvCaseDataRoot:   s.toolchain.CaseDataDir(&newCase),
	}

	if err := s.cases.Register(ctx, newCase); err != nil {
		if errors.Is(err, kdb.ErrCaseExists) {
			// lost the creation race. The winner's case is the one.
			winner, err := s.cases.Get(ctx, caseId)
			if err != nil {
				return domain.CaseWithTaskInfo{}, err
			}
			return s.WithTaskInfo(ctx, winner)
		}
		return domain.CaseWithTaskInfo{}, err
	}

	taskId := s.newTaskId()
	if err := s.tasks.Submit(ctx, domain.Task{
		TaskId: taskId,
		Kind:   domain.KindCreateCase,
		CaseId: caseId,
	}); err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	if err := s.cases.SetTaskId(ctx, caseId, domain.KindCreateCase, taskId); err != nil {
		return domain.CaseWithTaskInfo{}, err
	}

	newCase.CreateTaskId = taskId
	return s.WithTaskInfo(ctx, newCase)
}

// Run dispatches the run phase of a CONFIGURED case.
//
// The case moves to BUILDING before this returns, so concurrent reads
// see the case in progress rather than stale CONFIGURED.
func (s *Service) Run(ctx context.Context, caseId string) (domain.CaseWithTaskInfo, error) {
	found, err := s.cases.Get(ctx, caseId)
	if err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	if found.Status != domain.Configured {
		return domain.CaseWithTaskInfo{}, ErrNotRunnable
	}

	if err := s.cases.SetStatus(ctx, caseId, domain.Building); err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	found.Status = domain.Building

	taskId := s.newTaskId()
	if err := s.tasks.Submit(ctx, domain.Task{
		TaskId: taskId,
		Kind:   domain.KindRunCase,
		CaseId: caseId,
	}); err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	if err := s.cases.SetTaskId(ctx, caseId, domain.KindRunCase, taskId); err != nil {
		return domain.CaseWithTaskInfo{}, err
	}

	found.RunTaskId = taskId
	return s.WithTaskInfo(ctx, found)
}

// Remove deletes the case record, its on-disk artifacts and its task
// handles. Task forgetting is best-effort: a failure there is logged,
// not propagated.
func (s *Service) Remove(ctx context.Context, caseId string) error {
	found, err := s.cases.Get(ctx, caseId)
	if err != nil {
		return err
	}

	for _, taskId := range []string{found.CreateTaskId, found.RunTaskId} {
		if taskId == "" {
			continue
		}
		if err := s.tasks.Forget(ctx, taskId); err != nil {
			s.logger.Printf("cannot forget task %s of case %s: %s", taskId, caseId, err)
		}
	}

	if err := s.toolchain.CleanupCase(&found); err != nil {
		return err
	}
	return s.cases.Delete(ctx, caseId)
}

// Get retrieves a single case with its live task status.
func (s *Service) Get(ctx context.Context, caseId string) (domain.CaseWithTaskInfo, error) {
	found, err := s.cases.Get(ctx, caseId)
	if err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	return s.WithTaskInfo(ctx, found)
}

// GetAll retrieves every case with its live task status.
func (s *Service) GetAll(ctx context.Context) ([]domain.CaseWithTaskInfo, error) {
	all, err := s.cases.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	composed := make([]domain.CaseWithTaskInfo, 0, len(all))
	for _, c := range all {
		cwt, err := s.WithTaskInfo(ctx, c)
		if err != nil {
			return nil, err
		}
		composed = append(composed, cwt)
	}
	return composed, nil
}

// WithTaskInfo composes a case with the live status of its tasks.
//
// This view is recomputed on every read and never persisted: the task
// queue is the sole source of truth for in-flight status.
func (s *Service) WithTaskInfo(ctx context.Context, c domain.Case) (domain.CaseWithTaskInfo, error) {
	composed := domain.CaseWithTaskInfo{Case: c}

	create, err := s.taskView(ctx, c.CreateTaskId)
	if err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	composed.Create = create

	run, err := s.taskView(ctx, c.RunTaskId)
	if err != nil {
		return domain.CaseWithTaskInfo{}, err
	}
	composed.Run = run

	if create.Status == domain.TaskFailure || run.Status == domain.TaskFailure {
		composed.Status = domain.Failed
	}
	return composed, nil
}

func (s *Service) taskView(ctx context.Context, taskId string) (domain.TaskView, error) {
	if taskId == "" {
		return domain.TaskView{}, nil
	}
	task, err := s.tasks.Get(ctx, taskId)
	if err != nil {
		if errors.Is(err, domerr.ErrMissing) {
			// forgotten task. Same as never dispatched.
			return domain.TaskView{}, nil
		}
		return domain.TaskView{}, err
	}

	view := domain.TaskView{
		TaskId: task.TaskId,
		Status: task.Status,
		Result: task.Result,
	}
	if task.Status == domain.TaskFailure {
		view.Error = task.ErrorSummary()
	}
	return view, nil
}
