package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/noresmhub/ctsm-api/pkg/conn/db/postgres/pool"
	types "github.com/noresmhub/ctsm-api/pkg/domain"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/cases/db"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	kpgerr "github.com/noresmhub/ctsm-api/pkg/domain/errors/dberrors/postgres"
)

type pgCases struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.Interface {
	return &pgCases{pool: pool}
}

// asJSONB encodes v for a jsonb parameter.
func asJSONB(v any) (pgtype.JSONB, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return pgtype.JSONB{}, err
	}
	return pgtype.JSONB{Bytes: b, Status: pgtype.Present}, nil
}

func (c *pgCases) Register(ctx context.Context, newCase types.Case) error {
	variables, err := asJSONB(newCase.Variables)
	if err != nil {
		return err
	}
	env, err := asJSONB(newCase.Env)
	if err != nil {
		return err
	}

	if _, err := c.pool.Exec(
		ctx,
		`
		insert into "case" (
			"id", "name", "compset", "res", "driver", "data_url", "ctsm_tag",
			"variables", "env", "status", "date_created"
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
		newCase.Id, newCase.Name, newCase.Compset, newCase.Res,
		string(newCase.Driver), newCase.DataUrl, newCase.CtsmTag,
		variables, env, string(newCase.Status), newCase.CreatedAt,
	); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
			pgerr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", kdb.ErrCaseExists, newCase.Id)
		}
		return err
	}
	return nil
}

func (c *pgCases) Get(ctx context.Context, caseId string) (types.Case, error) {
	return c.get(ctx, c.pool, caseId, "")
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (c *pgCases) get(ctx context.Context, q queryer, caseId string, locking string) (types.Case, error) {
	found := types.Case{}
	var driver, status string
	variables, env := pgtype.JSONB{}, pgtype.JSONB{}

	if err := q.QueryRow(
		ctx,
		`
		select
			"id", "name", "compset", "res", "driver", "data_url", "ctsm_tag",
			"variables", "env", "status", "date_created",
			"create_task_id", "run_task_id"
		from "case" where "id" = $1
		`+locking,
		caseId,
	).Scan(
		&found.Id, &found.Name, &found.Compset, &found.Res, &driver,
		&found.DataUrl, &found.CtsmTag, &variables, &env, &status,
		&found.CreatedAt, &found.CreateTaskId, &found.RunTaskId,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Case{}, kpgerr.Missing{Table: "case", Identity: caseId}
		}
		return types.Case{}, err
	}

	if d, err := types.AsCTSMDriver(driver); err != nil {
		return types.Case{}, err
	} else {
		found.Driver = d
	}
	if s, err := types.AsCaseStatus(status); err != nil {
		return types.Case{}, err
	} else {
		found.Status = s
	}
	if err := json.Unmarshal(variables.Bytes, &found.Variables); err != nil {
		return types.Case{}, err
	}
	if err := json.Unmarshal(env.Bytes, &found.Env); err != nil {
		return types.Case{}, err
	}
	return found, nil
}

func (c *pgCases) GetAll(ctx context.Context) ([]types.Case, error) {
	rows, err := c.pool.Query(
		ctx,
		`select "id" from "case" order by "date_created" desc, "id"`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cases := make([]types.Case, 0, len(ids))
	for _, id := range ids {
		found, err := c.get(ctx, c.pool, id, "")
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				continue // removed between the two queries
			}
			return nil, err
		}
		cases = append(cases, found)
	}
	return cases, nil
}

func (c *pgCases) SetStatus(ctx context.Context, caseId string, newStatus types.CaseStatus) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(
		ctx,
		`select "status" from "case" where "id" = $1 for update`,
		caseId,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{Table: "case", Identity: caseId}
		}
		return err
	}

	currentStatus, err := types.AsCaseStatus(current)
	if err != nil {
		return err
	}
	if !currentStatus.CanTransit(newStatus) {
		return types.NewErrInvalidCaseStateChanging(currentStatus, newStatus)
	}

	if _, err := tx.Exec(
		ctx,
		`update "case" set "status" = $1 where "id" = $2`,
		string(newStatus), caseId,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (c *pgCases) SetTaskId(ctx context.Context, caseId string, kind types.TaskKind, taskId string) error {
	var column string
	switch kind {
	case types.KindCreateCase:
		column = "create_task_id"
	case types.KindRunCase:
		column = "run_task_id"
	default:
		return fmt.Errorf("'%s' is not TaskKind", kind)
	}

	tag, err := c.pool.Exec(
		ctx,
		`update "case" set "`+column+`" = $1 where "id" = $2`,
		taskId, caseId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{Table: "case", Identity: caseId}
	}
	return nil
}

func (c *pgCases) Delete(ctx context.Context, caseId string) error {
	_, err := c.pool.Exec(ctx, `delete from "case" where "id" = $1`, caseId)
	return err
}
