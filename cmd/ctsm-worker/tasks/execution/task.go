// Package execution is the worker loop body: claim one queued task and
// drive the matching toolchain phase for its case.
package execution

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/noresmhub/ctsm-api/cmd/ctsm-worker/recurring"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/cases/db"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	tdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
	"github.com/noresmhub/ctsm-api/pkg/domain/toolchain"
)

// initial value for task
func Seed() int {
	return 0
}

// Task claims one task and runs it to the end.
//
// The case status is persisted after every step, so a crashed worker
// leaves the case at the last step that actually completed. A step
// failure moves the case to FAILED and finishes the task as FAILURE;
// the loop itself goes on.
//
// The returned value counts tasks the loop has finished, either way.
func Task(
	logger *log.Logger,
	casedb kdb.Interface,
	taskdb tdb.Interface,
	tc *toolchain.Toolchain,
) recurring.Task[int] {
	return func(ctx context.Context, finished int) (int, bool, error) {
		claimed, ok, err := taskdb.Claim(ctx)
		if err != nil || !ok {
			return finished, false, err
		}
		logger.Printf(
			"claimed task %s (%s) for case %s",
			claimed.TaskId, claimed.Kind, claimed.CaseId,
		)

		theCase, err := casedb.Get(ctx, claimed.CaseId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				// the case was removed while the task sat in the queue.
				err := taskdb.Finish(
					ctx, claimed.TaskId, domain.TaskRevoked, "", "case is removed",
				)
				return finished + 1, true, err
			}
			return finished, true, err
		}

		var steps []toolchain.Step
		switch claimed.Kind {
		case domain.KindCreateCase:
			steps = tc.CreateSteps(&theCase)
		case domain.KindRunCase:
			steps = tc.RunSteps(&theCase)
		default:
			err := taskdb.Finish(
				ctx, claimed.TaskId, domain.TaskRejected, "",
				fmt.Sprintf("unknown task kind: %s", claimed.Kind),
			)
			return finished + 1, true, err
		}

		outputs := []string{}
		for _, step := range steps {
			out, err := step.Run(ctx)
			if out != "" {
				outputs = append(outputs, fmt.Sprintf("== %s ==\n%s", step.Name, out))
			}
			if err != nil {
				logger.Printf(
					"step %s of case %s failed: %s", step.Name, theCase.Id, err,
				)
				if serr := casedb.SetStatus(ctx, theCase.Id, domain.Failed); serr != nil {
					logger.Printf("cannot mark case %s as failed: %s", theCase.Id, serr)
				}
				ferr := taskdb.Finish(
					ctx, claimed.TaskId, domain.TaskFailure,
					strings.Join(outputs, "\n"), err.Error(),
				)
				return finished + 1, true, ferr
			}
			if err := casedb.SetStatus(ctx, theCase.Id, step.Resulting); err != nil {
				return finished, true, err
			}
			theCase.Status = step.Resulting
		}

		err = taskdb.Finish(
			ctx, claimed.TaskId, domain.TaskSuccess, strings.Join(outputs, "\n"), "",
		)
		if err != nil {
			return finished, true, err
		}
		logger.Printf(
			"task %s done: case %s is %s", claimed.TaskId, theCase.Id, theCase.Status,
		)
		return finished + 1, true, nil
	}
}
