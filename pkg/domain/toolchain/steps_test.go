package toolchain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/toolchain"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

type invocation struct {
	Dir  string
	Name string
	Args []string
}

type recordingRunner struct {
	Invocations []invocation
	Err         error
}

func (r *recordingRunner) Run(_ context.Context, dir string, _ map[string]string, name string, args ...string) (string, error) {
	r.Invocations = append(r.Invocations, invocation{Dir: dir, Name: name, Args: args})
	return "ok", r.Err
}

func mkdirAll(t *testing.T, path string) error {
	t.Helper()
	return os.MkdirAll(path, 0o755)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func testCase(variables ...domain.CaseVariable) *domain.Case {
	return &domain.Case{
		CaseBody: domain.CaseBody{
			Id:      "0123abcd",
			Compset: "2000_DATM%1PTGSWP3_CLM50%FATES",
			Res:     "1x1_ALP1",
			Driver:  domain.DriverNuopc,
			CtsmTag: "ctsm5.1",
		},
		Variables: variables,
	}
}

func runAll(t *testing.T, steps []toolchain.Step) []domain.CaseStatus {
	t.Helper()
	statuses := []domain.CaseStatus{}
	for _, s := range steps {
		if _, err := s.Run(context.Background()); err != nil {
			t.Fatalf("step %s: unexpected error: %v", s.Name, err)
		}
		statuses = append(statuses, s.Resulting)
	}
	return statuses
}

func TestCreateSteps(t *testing.T) {
	t.Run("without xml variables it skips xmlchange", func(t *testing.T) {
		runner := &recordingRunner{}
		tc := toolchain.New(runner, "/model", t.TempDir(), "/data", "/archives", "container")

		c := testCase()
		// the case dir is normally made by create_newcase.
		if err := mkdirAll(t, tc.CaseDir(c)); err != nil {
			t.Fatal(err)
		}
		statuses := runAll(t, tc.CreateSteps(c))

		expected := []domain.CaseStatus{domain.Created, domain.Setup, domain.Configured}
		if len(statuses) != len(expected) {
			t.Fatalf("unexpected steps: %v", statuses)
		}
		for i := range expected {
			if statuses[i] != expected[i] {
				t.Errorf("step %d: got %s, expected %s", i, statuses[i], expected[i])
			}
		}

		if runner.Invocations[0].Name != filepath.Join("/model", "cime", "scripts", "create_newcase") {
			t.Errorf("unexpected first command: %+v", runner.Invocations[0])
		}
	})

	t.Run("xml variables add an xmlchange step", func(t *testing.T) {
		runner := &recordingRunner{}
		tc := toolchain.New(runner, "/model", t.TempDir(), "/data", "/archives", "container")

		c := testCase(
			domain.CaseVariable{
				Name: "STOP_N", Value: domain.IntValue(3),
				Category: domain.CategoryCtsmXml, Type: domain.TypeInteger,
			},
			domain.CaseVariable{
				Name: "STOP_OPTION", Value: domain.StringValue("ndays"),
				Category: domain.CategoryCtsmXml, Type: domain.TypeChar,
			},
		)
		if err := mkdirAll(t, tc.CaseDir(c)); err != nil {
			t.Fatal(err)
		}
		statuses := runAll(t, tc.CreateSteps(c))

		expected := []domain.CaseStatus{
			domain.Created, domain.Updated, domain.Setup, domain.Configured,
		}
		for i := range expected {
			if statuses[i] != expected[i] {
				t.Errorf("step %d: got %s, expected %s", i, statuses[i], expected[i])
			}
		}

		changes := slices.Filter(runner.Invocations, func(i invocation) bool {
			return i.Name == "./xmlchange"
		})
		if len(changes) != 2 {
			t.Fatalf("expected 2 xmlchange invocations, got %d", len(changes))
		}
		if changes[0].Args[0] != "STOP_N=3" || changes[1].Args[0] != "STOP_OPTION=ndays" {
			t.Errorf("unexpected xmlchange args: %+v", changes)
		}
	})

	t.Run("the namelist step writes user_nl_clm", func(t *testing.T) {
		runner := &recordingRunner{}
		casesRoot := t.TempDir()
		tc := toolchain.New(runner, "/model", casesRoot, "/data", "/archives", "container")

		c := testCase(
			domain.CaseVariable{
				Name: "use_fates", Value: domain.BoolValue(true),
				Category: domain.CategoryUserNlClm, Type: domain.TypeLogical,
			},
		)
		steps := tc.CreateSteps(c)

		// the case dir is normally made by create_newcase.
		if err := mkdirAll(t, tc.CaseDir(c)); err != nil {
			t.Fatal(err)
		}
		runAll(t, steps)

		content := readFile(t, filepath.Join(tc.CaseDir(c), "user_nl_clm"))
		if !strings.Contains(content, "use_fates = .true.") {
			t.Errorf("unexpected user_nl_clm content:\n%s", content)
		}
	})
}

func TestRunSteps(t *testing.T) {
	t.Run("without fates parameters it builds, checks and submits", func(t *testing.T) {
		runner := &recordingRunner{}
		tc := toolchain.New(runner, "/model", t.TempDir(), "/data", "/archives", "container")

		statuses := runAll(t, tc.RunSteps(testCase()))

		expected := []domain.CaseStatus{
			domain.Built, domain.InputDataReady, domain.Submitted,
		}
		if len(statuses) != len(expected) {
			t.Fatalf("unexpected steps: %v", statuses)
		}
		for i := range expected {
			if statuses[i] != expected[i] {
				t.Errorf("step %d: got %s, expected %s", i, statuses[i], expected[i])
			}
		}
	})

	t.Run("fates parameters enter the conditional branch", func(t *testing.T) {
		runner := &recordingRunner{}
		tc := toolchain.New(runner, "/model", t.TempDir(), "/data", "/archives", "container")

		c := testCase(
			domain.CaseVariable{
				Name: "fates_leaf_slatop",
				Value: domain.ListValue{
					domain.FloatValue(0.012), domain.FloatValue(0.024),
				},
				Category: domain.CategoryFatesParam, Type: domain.TypeFloat,
			},
			domain.CaseVariable{
				Name: "included_pft_indices",
				Value: domain.ListValue{
					domain.IntValue(1), domain.IntValue(6),
				},
				Category: domain.CategoryFatesParam, Type: domain.TypeInteger,
			},
		)
		statuses := runAll(t, tc.RunSteps(c))

		expected := []domain.CaseStatus{
			domain.Built,
			domain.InputDataReady,
			domain.FatesParamsUpdated, // one per scalar
			domain.FatesParamsUpdated,
			domain.Rebuilt,
			domain.FatesIndicesSet,
			domain.Submitted,
		}
		if len(statuses) != len(expected) {
			t.Fatalf("unexpected steps: %v", statuses)
		}
		for i := range expected {
			if statuses[i] != expected[i] {
				t.Errorf("step %d: got %s, expected %s", i, statuses[i], expected[i])
			}
		}

		edits := slices.Filter(runner.Invocations, func(i invocation) bool {
			return len(i.Args) != 0 && strings.HasSuffix(i.Args[0], "modify_fates_paramfile.py")
		})
		if len(edits) != 2 {
			t.Fatalf("expected 2 parameter edits, got %d", len(edits))
		}
		if edits[0].Args[4] != "1" || edits[1].Args[4] != "2" {
			t.Errorf("pft indices should count per scalar: %+v", edits)
		}

		swaps := slices.Filter(runner.Invocations, func(i invocation) bool {
			return len(i.Args) != 0 && strings.HasSuffix(i.Args[0], "FatesPFTIndexSwapper.py")
		})
		if len(swaps) != 1 || swaps[0].Args[2] != "1,6" {
			t.Errorf("unexpected index swap: %+v", swaps)
		}
	})

	t.Run("a failing script surfaces its error", func(t *testing.T) {
		expected := errors.New("boom")
		runner := &recordingRunner{Err: expected}
		tc := toolchain.New(runner, "/model", t.TempDir(), "/data", "/archives", "container")

		steps := tc.RunSteps(testCase())
		if _, err := steps[0].Run(context.Background()); !errors.Is(err, expected) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
