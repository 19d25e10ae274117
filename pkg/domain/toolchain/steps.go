package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

// Step is one externally-visible unit of a pipeline. The case moves to
// Resulting when Run returns nil, and to FAILED when it returns an
// error. Remaining steps are skipped after a failure.
type Step struct {
	Name      string
	Resulting domain.CaseStatus
	Run       func(ctx context.Context) (string, error)
}

// CreateSteps is the create phase: make the case directory, apply the
// XML settings, set it up, and write its namelists.
func (t *Toolchain) CreateSteps(c *domain.Case) []Step {
	caseDir := t.CaseDir(c)
	dataDir := t.CaseDataDir(c)

	steps := []Step{
		{
			Name:      "create_newcase",
			Resulting: domain.Created,
			Run: func(ctx context.Context) (string, error) {
				return t.runner.Run(
					ctx, t.modelRoot, c.Env, t.createNewcaseScript(),
					"--case", caseDir,
					"--compset", c.Compset,
					"--res", c.Res,
					"--driver", c.Driver.String(),
					"--machine", t.machine,
					"--run-unsupported",
					"--handle-preexisting-dirs", "r",
				)
			},
		},
	}

	if xmlVars := variablesOf(c, domain.CategoryCtsmXml); 0 < len(xmlVars) {
		steps = append(steps, Step{
			Name:      "xmlchange",
			Resulting: domain.Updated,
			Run: func(ctx context.Context) (string, error) {
				out := ""
				for _, v := range xmlVars {
					value := v.Value.Literal()
					if v.AppendInputPath {
						value = filepath.Join(dataDir, value)
					}
					o, err := t.runner.Run(
						ctx, caseDir, c.Env, "./xmlchange", v.Name+"="+value,
					)
					out += o
					if err != nil {
						return out, err
					}
				}
				return out, nil
			},
		})
	}

	steps = append(steps,
		Step{
			Name:      "case.setup",
			Resulting: domain.Setup,
			Run: func(ctx context.Context) (string, error) {
				return t.runner.Run(ctx, caseDir, c.Env, "./case.setup")
			},
		},
		Step{
			Name:      "write namelists",
			Resulting: domain.Configured,
			Run: func(ctx context.Context) (string, error) {
				content := RenderUserNlClm(c, dataDir)
				path := filepath.Join(caseDir, "user_nl_clm")

				f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return "", err
				}
				defer f.Close()
				if _, err := f.WriteString(content); err != nil {
					return "", err
				}
				return fmt.Sprintf("wrote %d bytes to user_nl_clm", len(content)), nil
			},
		},
	)

	return steps
}

// RunSteps is the run phase: build, fetch input data, apply the FATES
// parameter branch when FATES parameters are set, and submit.
func (t *Toolchain) RunSteps(c *domain.Case) []Step {
	caseDir := t.CaseDir(c)

	steps := []Step{
		{
			Name:      "case.build",
			Resulting: domain.Built,
			Run: func(ctx context.Context) (string, error) {
				return t.runner.Run(ctx, caseDir, c.Env, "./case.build")
			},
		},
		{
			Name:      "check_input_data",
			Resulting: domain.InputDataReady,
			Run: func(ctx context.Context) (string, error) {
				return t.runner.Run(ctx, caseDir, c.Env, "./check_input_data", "--download")
			},
		},
	}

	steps = append(steps, t.fatesSteps(c)...)

	steps = append(steps, Step{
		Name:      "case.submit",
		Resulting: domain.Submitted,
		Run: func(ctx context.Context) (string, error) {
			return t.runner.Run(ctx, caseDir, c.Env, "./case.submit")
		},
	})

	return steps
}

// fatesSteps is the conditional FATES branch of the run phase.
//
// Parameter edits run once per scalar of each multi-valued parameter,
// each persisting FATES_PARAMS_UPDATED again, then the build is re-run
// to pick up the namelist change, then the PFT index remapping runs.
func (t *Toolchain) fatesSteps(c *domain.Case) []Step {
	caseDir := t.CaseDir(c)
	paramFile := t.fatesParamFile(c)

	params := []domain.CaseVariable{}
	var pftIndices domain.Value
	for _, v := range c.Variables {
		if v.Category != domain.CategoryFatesParam {
			continue
		}
		if v.Name == domain.IncludedPftIndices {
			pftIndices = v.Value
			continue
		}
		params = append(params, v)
	}
	if len(params) == 0 && pftIndices == nil {
		return nil
	}

	steps := []Step{}
	for _, p := range params {
		values, ok := p.Value.(domain.ListValue)
		if !ok {
			values = domain.ListValue{p.Value}
		}
		for i, value := range values {
			name, pft, val := p.Name, strconv.Itoa(i+1), value.Literal()
			steps = append(steps, Step{
				Name:      fmt.Sprintf("set %s for pft %s", name, pft),
				Resulting: domain.FatesParamsUpdated,
				Run: func(ctx context.Context) (string, error) {
					return t.runner.Run(
						ctx, caseDir, c.Env,
						"python3", t.fatesToolScript("modify_fates_paramfile.py"),
						"--var", name, "--pft", pft, "--val", val,
						"--fin", paramFile, "--fout", paramFile, "--overwrite",
					)
				},
			})
		}
	}

	steps = append(steps, Step{
		Name:      "rebuild",
		Resulting: domain.Rebuilt,
		Run: func(ctx context.Context) (string, error) {
			return t.runner.Run(ctx, caseDir, c.Env, "./case.build")
		},
	})

	if pftIndices != nil {
		indices := pftIndices.Literal()
		steps = append(steps, Step{
			Name:      "swap pft indices",
			Resulting: domain.FatesIndicesSet,
			Run: func(ctx context.Context) (string, error) {
				return t.runner.Run(
					ctx, caseDir, c.Env,
					"python3", t.fatesToolScript("FatesPFTIndexSwapper.py"),
					"--pft-indices", indices,
					"--fin", paramFile, "--fout", paramFile,
				)
			},
		})
	}

	return steps
}

func variablesOf(c *domain.Case, category domain.VariableCategory) []domain.CaseVariable {
	found := []domain.CaseVariable{}
	for _, v := range c.Variables {
		if v.Category == category {
			found = append(found, v)
		}
	}
	return found
}
