// Package schema creates and upgrades the database tables.
//
// DDL statements are embedded in the binary, one file per version.
// Applied versions are tracked in the "schema_version" table, so
// starting a newer binary against an older database upgrades it in
// place.
package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/noresmhub/ctsm-api/pkg/conn/db/postgres/pool"
)

//go:embed ddl/*.sql
var ddl embed.FS

type pgSchema struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) *pgSchema {
	return &pgSchema{pool: pool}
}

type version struct {
	Version int
	Path    string
}

// Version reads the schema version the database is at.
// A database without the version table is at version 0.
func (s *pgSchema) Version(ctx context.Context) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return -1, err
	}
	defer conn.Release()

	var v int
	if err := conn.QueryRow(
		ctx, `select coalesce(max("version"), 0) from "schema_version"`,
	).Scan(&v); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
			if pgerr.Code == pgerrcode.UndefinedTable {
				return 0, nil
			}
		}
		return -1, err
	}
	return v, nil
}

// Upgrade applies every DDL version newer than the database's.
func (s *pgSchema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return err
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`create table if not exists "schema_version" ("version" int not null primary key)`,
	); err != nil {
		return err
	}

	for _, v := range versions {
		if v.Version <= current {
			continue
		}
		query, err := ddl.ReadFile(v.Path)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("cannot apply schema version %d: %w", v.Version, err)
		}
		if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx, `insert into "schema_version" ("version") values ($1)`, v.Version,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// versions enumerates the embedded DDL files, sorted by version number.
// Filenames are spelled NNNN_description.sql.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := fs.ReadDir(ddl, "ddl")
	if err != nil {
		return nil, err
	}

	versions := make([]version, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		num, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		versions = append(versions, version{Version: v, Path: "ddl/" + name})
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})
	return versions, nil
}
