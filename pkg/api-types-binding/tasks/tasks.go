package tasks

import (
	"github.com/noresmhub/ctsm-api-types/tasks"
	"github.com/noresmhub/ctsm-api/pkg/domain"
)

func Compose(tv domain.TaskView) tasks.Info {
	return tasks.Info{
		TaskId: tv.TaskId,
		Status: string(tv.Status),
		Result: tv.Result,
		Error:  tv.Error,
	}
}
