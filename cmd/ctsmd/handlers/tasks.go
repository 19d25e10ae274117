package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	binderr "github.com/noresmhub/ctsm-api/pkg/api-types-binding/errors"
	bindtasks "github.com/noresmhub/ctsm-api/pkg/api-types-binding/tasks"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	taskdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
)

// GetTaskHandler retrieves the live status of a single task.
func GetTaskHandler(tasks taskdb.Interface, taskIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(taskIdParam)

		task, err := tasks.Get(ctx, taskId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		view := domain.TaskView{
			TaskId: task.TaskId,
			Status: task.Status,
			Result: task.Result,
		}
		if task.Status == domain.TaskFailure {
			view.Error = task.ErrorSummary()
		}
		return c.JSON(200, bindtasks.Compose(view))
	}
}
