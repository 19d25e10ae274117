// Package toolchain drives the CTSM/CIME scripts for a case.
//
// Every operation here shells out to the model checkout's own scripts.
// Nothing in this package touches the database: pipelines report
// progress through the callbacks the worker wires in.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

type Toolchain struct {
	runner Runner

	// root of the CTSM checkout.
	modelRoot string

	// directory holding one subdirectory per case.
	casesRoot string

	// directory holding one extracted-data subdirectory per case id.
	dataRoot string

	// directory holding cached output archives.
	archivesRoot string

	// CIME machine name passed to create_newcase.
	machine string
}

func New(runner Runner, modelRoot, casesRoot, dataRoot, archivesRoot, machine string) *Toolchain {
	return &Toolchain{
		runner:       runner,
		modelRoot:    modelRoot,
		casesRoot:    casesRoot,
		dataRoot:     dataRoot,
		archivesRoot: archivesRoot,
		machine:      machine,
	}
}

func (t *Toolchain) createNewcaseScript() string {
	return filepath.Join(t.modelRoot, "cime", "scripts", "create_newcase")
}

func (t *Toolchain) fatesToolScript(name string) string {
	return filepath.Join(t.modelRoot, "src", "fates", "tools", name)
}

// CaseDir is the working directory of the case's scripts.
func (t *Toolchain) CaseDir(c *domain.Case) string {
	return filepath.Join(t.casesRoot, c.FolderName())
}

// CaseDataDir is the case-local extracted-data directory, keyed by
// case id so cases sharing a dataset digest share the directory.
func (t *Toolchain) CaseDataDir(c *domain.Case) string {
	return filepath.Join(t.dataRoot, c.Id)
}

// ArchivePath is where the case's zipped output is cached.
func (t *Toolchain) ArchivePath(c *domain.Case) string {
	return filepath.Join(t.archivesRoot, c.Id+".zip")
}

func (t *Toolchain) fatesParamFile(c *domain.Case) string {
	return filepath.Join(t.CaseDir(c), "fates_params.nc")
}

// Check verifies the model checkout is usable before serving requests.
func (t *Toolchain) Check(ctx context.Context) error {
	if _, err := os.Stat(t.modelRoot); err != nil {
		return fmt.Errorf("model root is not usable: %w", err)
	}
	if _, err := os.Stat(t.createNewcaseScript()); err != nil {
		return fmt.Errorf("create_newcase is not usable: %w", err)
	}
	for _, root := range []string{t.casesRoot, t.dataRoot, t.archivesRoot} {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// CleanupCase removes the case's on-disk artifacts: the case directory,
// the cached archive and the case-local data directory.
func (t *Toolchain) CleanupCase(c *domain.Case) error {
	for _, path := range []string{
		t.CaseDir(c), t.ArchivePath(c), t.CaseDataDir(c),
	} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return nil
}
