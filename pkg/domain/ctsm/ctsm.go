// Package ctsm assembles the domain components of the CTSM API from a
// sealed server configuration.
package ctsm

import (
	"context"
	"log"

	bconf "github.com/noresmhub/ctsm-api/pkg/configs/backend"
	kpool "github.com/noresmhub/ctsm-api/pkg/conn/db/postgres/pool"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases"
	casedb "github.com/noresmhub/ctsm-api/pkg/domain/cases/db"
	casepg "github.com/noresmhub/ctsm-api/pkg/domain/cases/db/postgres"
	"github.com/noresmhub/ctsm-api/pkg/domain/internal/db/postgres/schema"
	"github.com/noresmhub/ctsm-api/pkg/domain/sites"
	sitedb "github.com/noresmhub/ctsm-api/pkg/domain/sites/db"
	sitepg "github.com/noresmhub/ctsm-api/pkg/domain/sites/db/postgres"
	taskdb "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db"
	taskpg "github.com/noresmhub/ctsm-api/pkg/domain/tasks/db/postgres"
	"github.com/noresmhub/ctsm-api/pkg/domain/toolchain"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
)

type Schema interface {
	Version(ctx context.Context) (int, error)
	Upgrade(ctx context.Context) error
}

type Ctsm interface {
	Config() *bconf.CtsmServerConfig

	Cases() casedb.Interface
	Tasks() taskdb.Interface
	SiteLinks() sitedb.Interface
	Schema() Schema

	Registry() *registry.Registry
	Sites() *sites.Catalog
	Toolchain() *toolchain.Toolchain
	Service() *cases.Service

	Close()
}

type ctsm struct {
	config *bconf.CtsmServerConfig
	pool   kpool.Pool

	cases     casedb.Interface
	tasks     taskdb.Interface
	siteLinks sitedb.Interface
	schema    Schema

	registry  *registry.Registry
	sites     *sites.Catalog
	toolchain *toolchain.Toolchain
	service   *cases.Service
}

// Default connects to the database and wires every component up.
//
// The database schema is upgraded in place before this returns.
func Default(ctx context.Context, config *bconf.CtsmServerConfig, logger *log.Logger) (Ctsm, error) {
	pool, err := kpool.Connect(ctx, config.Database())
	if err != nil {
		return nil, err
	}
	return New(ctx, config, pool, logger)
}

func New(ctx context.Context, config *bconf.CtsmServerConfig, pool kpool.Pool, logger *log.Logger) (Ctsm, error) {
	sch := schema.New(pool)
	if err := sch.Upgrade(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	reg, err := registry.Get(config.VariablesFile())
	if err != nil {
		pool.Close()
		return nil, err
	}
	catalog, err := sites.LoadCatalog(config.SitesFile())
	if err != nil {
		pool.Close()
		return nil, err
	}

	tc := toolchain.New(
		toolchain.NewRunner(),
		config.Model().Root(),
		config.Storage().CasesRoot(),
		config.Storage().DataRoot(),
		config.Storage().ArchivesRoot(),
		config.Model().Machine(),
	)

	caseIf := casepg.New(pool)
	taskIf := taskpg.New(pool)

	return &ctsm{
		config:    config,
		pool:      pool,
		cases:     caseIf,
		tasks:     taskIf,
		siteLinks: sitepg.New(pool),
		schema:    sch,
		registry:  reg,
		sites:     catalog,
		toolchain: tc,
		service:   cases.New(reg, caseIf, taskIf, tc, config.Model().Tag(), logger),
	}, nil
}

func (c *ctsm) Config() *bconf.CtsmServerConfig { return c.config }
func (c *ctsm) Cases() casedb.Interface         { return c.cases }
func (c *ctsm) Tasks() taskdb.Interface         { return c.tasks }
func (c *ctsm) SiteLinks() sitedb.Interface     { return c.siteLinks }
func (c *ctsm) Schema() Schema                  { return c.schema }
func (c *ctsm) Registry() *registry.Registry    { return c.registry }
func (c *ctsm) Sites() *sites.Catalog           { return c.sites }
func (c *ctsm) Toolchain() *toolchain.Toolchain { return c.toolchain }
func (c *ctsm) Service() *cases.Service         { return c.service }

func (c *ctsm) Close() {
	c.pool.Close()
}
