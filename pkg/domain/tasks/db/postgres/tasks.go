package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kpool "github.com/noresmhub/ctsm-api/pkg/conn/db/postgres/pool"
	types "github.com/noresmhub/ctsm-api/pkg/domain"
	kpgerr "github.com/noresmhub/ctsm-api/pkg/domain/errors/dberrors/postgres"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
)

type pgTasks struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.Interface {
	return &pgTasks{pool: pool}
}

func (t *pgTasks) Submit(ctx context.Context, task types.Task) error {
	_, err := t.pool.Exec(
		ctx,
		`
		insert into "task" ("task_id", "kind", "case_id", "status")
		values ($1, $2, $3, $4)
		`,
		task.TaskId, string(task.Kind), task.CaseId, string(types.TaskPending),
	)
	return err
}

func (t *pgTasks) Get(ctx context.Context, taskId string) (types.Task, error) {
	found := types.Task{}
	var kind, status string

	if err := t.pool.QueryRow(
		ctx,
		`
		select
			"task_id", "kind", "case_id", "status", "result", "error",
			"created_at", "updated_at"
		from "task" where "task_id" = $1
		`,
		taskId,
	).Scan(
		&found.TaskId, &kind, &found.CaseId, &status,
		&found.Result, &found.Error, &found.CreatedAt, &found.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Task{}, kpgerr.Missing{Table: "task", Identity: taskId}
		}
		return types.Task{}, err
	}

	if k, err := types.AsTaskKind(kind); err != nil {
		return types.Task{}, err
	} else {
		found.Kind = k
	}
	if s, err := types.AsTaskStatus(status); err != nil {
		return types.Task{}, err
	} else {
		found.Status = s
	}
	return found, nil
}

func (t *pgTasks) Claim(ctx context.Context) (types.Task, bool, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return types.Task{}, false, err
	}
	defer tx.Rollback(ctx)

	claimed := types.Task{}
	var kind string
	if err := tx.QueryRow(
		ctx,
		`
		with "next" as (
			select "task_id" from "task"
			where "status" = $1
			order by "created_at", "task_id"
			limit 1
			for update skip locked
		)
		update "task" set "status" = $2, "updated_at" = now()
		where "task_id" in (select "task_id" from "next")
		returning "task_id", "kind", "case_id", "result", "error",
			"created_at", "updated_at"
		`,
		string(types.TaskPending), string(types.TaskStarted),
	).Scan(
		&claimed.TaskId, &kind, &claimed.CaseId,
		&claimed.Result, &claimed.Error, &claimed.CreatedAt, &claimed.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Task{}, false, nil
		}
		return types.Task{}, false, err
	}

	if k, err := types.AsTaskKind(kind); err != nil {
		return types.Task{}, false, err
	} else {
		claimed.Kind = k
	}
	claimed.Status = types.TaskStarted

	if err := tx.Commit(ctx); err != nil {
		return types.Task{}, false, err
	}
	return claimed, true, nil
}

func (t *pgTasks) Finish(ctx context.Context, taskId string, status types.TaskStatus, result string, errText string) error {
	tag, err := t.pool.Exec(
		ctx,
		`
		update "task"
		set "status" = $1, "result" = $2, "error" = $3, "updated_at" = now()
		where "task_id" = $4
		`,
		string(status), result, errText, taskId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{Table: "task", Identity: taskId}
	}
	return nil
}

func (t *pgTasks) Forget(ctx context.Context, taskId string) error {
	_, err := t.pool.Exec(ctx, `delete from "task" where "task_id" = $1`, taskId)
	return err
}
