package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kpool "github.com/noresmhub/ctsm-api/pkg/conn/db/postgres/pool"
	types "github.com/noresmhub/ctsm-api/pkg/domain"
	kpgerr "github.com/noresmhub/ctsm-api/pkg/domain/errors/dberrors/postgres"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/sites/db"
)

type pgSites struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.Interface {
	return &pgSites{pool: pool}
}

func (s *pgSites) Link(ctx context.Context, siteName string, caseId string) error {
	_, err := s.pool.Exec(
		ctx,
		`
		insert into "site_case" ("name", "case_id") values ($1, $2)
		on conflict ("name") do update
		set "case_id" = excluded."case_id", "date_created" = now()
		`,
		siteName, caseId,
	)
	return err
}

func (s *pgSites) GetLink(ctx context.Context, siteName string) (types.SiteCase, error) {
	found := types.SiteCase{}
	if err := s.pool.QueryRow(
		ctx,
		`select "name", "case_id", "date_created" from "site_case" where "name" = $1`,
		siteName,
	).Scan(&found.Name, &found.CaseId, &found.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.SiteCase{}, kpgerr.Missing{Table: "site_case", Identity: siteName}
		}
		return types.SiteCase{}, err
	}
	return found, nil
}

func (s *pgSites) GetAll(ctx context.Context) ([]types.SiteCase, error) {
	rows, err := s.pool.Query(
		ctx,
		`select "name", "case_id", "date_created" from "site_case" order by "name"`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []types.SiteCase{}
	for rows.Next() {
		link := types.SiteCase{}
		if err := rows.Scan(&link.Name, &link.CaseId, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *pgSites) Unlink(ctx context.Context, caseId string) error {
	_, err := s.pool.Exec(ctx, `delete from "site_case" where "case_id" = $1`, caseId)
	return err
}
