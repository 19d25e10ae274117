package validate_test

import (
	"errors"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases/validate"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
	"github.com/noresmhub/ctsm-api/pkg/utils/pointer"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
	"github.com/noresmhub/ctsm-api/pkg/utils/try"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	return try.To(registry.New([]domain.VariableConfig{
		{
			Name: "STOP_N", Category: domain.CategoryCtsmXml, Type: domain.TypeInteger,
			Validation: &domain.VariableValidation{
				Min: pointer.Ref(1.0), Max: pointer.Ref(100.0),
			},
		},
		{
			Name: "STOP_OPTION", Category: domain.CategoryCtsmXml, Type: domain.TypeChar,
			Validation: &domain.VariableValidation{
				Choices: []domain.VariableChoice{
					{Value: "ndays"}, {Value: "nmonths"}, {Value: "nyears"},
				},
			},
		},
		{
			Name: "RUN_STARTDATE", Category: domain.CategoryCtsmXml, Type: domain.TypeDate,
			Validation: &domain.VariableValidation{
				Pattern:      `^\d{4}-\d{2}-\d{2}$`,
				PatternError: "dates are spelled YYYY-MM-DD",
			},
		},
		{Name: "use_fates", Category: domain.CategoryUserNlClm, Type: domain.TypeLogical},
		{
			Name: "hist_fincl1", Category: domain.CategoryUserNlClmHistory,
			Type: domain.TypeChar, AllowMultiple: true,
		},
		{
			Name: "included_pft_indices", Category: domain.CategoryFatesParam,
			Type: domain.TypeInteger, AllowMultiple: true,
		},
		{
			Name: "CLM_USRDAT_NAME", Category: domain.CategoryCtsmXml, Type: domain.TypeChar,
			AllowCustom: true,
			Validation: &domain.VariableValidation{
				Choices: []domain.VariableChoice{{Value: "OBS", Label: "observed"}},
			},
		},
	})).OrFatal(t)
}

func TestAgainst(t *testing.T) {
	t.Run("it validates, coerces and sorts variables", func(t *testing.T) {
		reg := testRegistry(t)

		got := try.To(validate.Against(reg, []validate.RawVariable{
			{Name: "use_fates", Value: "yes"},
			{Name: "STOP_N", Value: "3"},
			{Name: "hist_fincl1", Value: "TLAI"},
		})).OrFatal(t)

		names := slices.Map(got, func(v domain.CaseVariable) string { return v.Name })
		for i, want := range []string{"STOP_N", "hist_fincl1", "use_fates"} {
			if names[i] != want {
				t.Fatalf("unexpected order: %v", names)
			}
		}

		if got[0].Value != domain.IntValue(3) {
			t.Errorf("STOP_N: expected 3, got %v", got[0].Value)
		}
		if got[0].Category != domain.CategoryCtsmXml {
			t.Errorf("STOP_N: unexpected category %s", got[0].Category)
		}

		list, ok := got[1].Value.(domain.ListValue)
		if !ok || len(list) != 1 || list[0] != domain.StringValue("TLAI") {
			t.Errorf("hist_fincl1: scalar should be wrapped into a list, got %v", got[1].Value)
		}

		if got[2].Value != domain.BoolValue(true) {
			t.Errorf("use_fates: expected true, got %v", got[2].Value)
		}
	})

	t.Run("it rejects unknown variables", func(t *testing.T) {
		reg := testRegistry(t)

		_, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_N", Value: 3},
			{Name: "NO_SUCH_VARIABLE", Value: 1},
		})

		verr := new(validate.Error)
		if !errors.As(err, &verr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(verr.Problems) != 1 || verr.Problems[0].Variable != "NO_SUCH_VARIABLE" {
			t.Errorf("unexpected problems: %+v", verr.Problems)
		}
	})

	t.Run("it accumulates every problem before failing", func(t *testing.T) {
		reg := testRegistry(t)

		_, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_N", Value: "abc"},
			{Name: "STOP_OPTION", Value: "fortnights"},
			{Name: "use_fates", Value: true},
		})

		verr := new(validate.Error)
		if !errors.As(err, &verr) {
			t.Fatalf("unexpected error: %v", err)
		}
		vars := slices.Map(verr.Problems, func(p validate.Problem) string { return p.Variable })
		if len(vars) != 2 || vars[0] != "STOP_N" || vars[1] != "STOP_OPTION" {
			t.Errorf("unexpected problems: %+v", verr.Problems)
		}
	})

	t.Run("it applies numeric bounds", func(t *testing.T) {
		reg := testRegistry(t)

		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_N", Value: 0},
		}); err == nil {
			t.Error("no error for value under the minimum")
		}
		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_N", Value: 101},
		}); err == nil {
			t.Error("no error for value over the maximum")
		}
	})

	t.Run("it applies the pattern with its custom message", func(t *testing.T) {
		reg := testRegistry(t)

		_, err := validate.Against(reg, []validate.RawVariable{
			{Name: "RUN_STARTDATE", Value: "01/01/2000"},
		})
		verr := new(validate.Error)
		if !errors.As(err, &verr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if verr.Problems[0].Message != "dates are spelled YYYY-MM-DD" {
			t.Errorf("unexpected message: %s", verr.Problems[0].Message)
		}

		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "RUN_STARTDATE", Value: "2000-01-01"},
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("choices restrict values unless allow_custom", func(t *testing.T) {
		reg := testRegistry(t)

		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_OPTION", Value: "ndays"},
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_OPTION", Value: "decades"},
		}); err == nil {
			t.Error("no error for a value out of choices")
		}

		// allow_custom bypasses the choice list.
		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "CLM_USRDAT_NAME", Value: "MY_SITE"},
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it rejects plural values for a singular variable", func(t *testing.T) {
		reg := testRegistry(t)

		_, err := validate.Against(reg, []validate.RawVariable{
			{Name: "STOP_N", Value: []any{1, 2}},
		})
		if err == nil {
			t.Error("no error for plural values")
		}
	})

	t.Run("it rejects an empty value list", func(t *testing.T) {
		reg := testRegistry(t)

		for _, name := range []string{"STOP_N", "hist_fincl1"} {
			_, err := validate.Against(reg, []validate.RawVariable{
				{Name: name, Value: []any{}},
			})
			verr := new(validate.Error)
			if !errors.As(err, &verr) {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if len(verr.Problems) != 1 || verr.Problems[0].Variable != name {
				t.Errorf("%s: unexpected problems: %+v", name, verr.Problems)
			}
		}
	})

	t.Run("it splits comma-separated pft indices", func(t *testing.T) {
		reg := testRegistry(t)

		got := try.To(validate.Against(reg, []validate.RawVariable{
			{Name: "included_pft_indices", Value: "1, 2, 6"},
		})).OrFatal(t)

		expected := domain.ListValue{
			domain.IntValue(1), domain.IntValue(2), domain.IntValue(6),
		}
		list, ok := got[0].Value.(domain.ListValue)
		if !ok || len(list) != len(expected) {
			t.Fatalf("unexpected value: %v", got[0].Value)
		}
		for i := range expected {
			if list[i] != expected[i] {
				t.Errorf("index %d: got %v, expected %v", i, list[i], expected[i])
			}
		}

		if _, err := validate.Against(reg, []validate.RawVariable{
			{Name: "included_pft_indices", Value: "1, two, 3"},
		}); err == nil {
			t.Error("no error for a non-integer component")
		}
	})

	t.Run("free-form namelist text passes through", func(t *testing.T) {
		reg := testRegistry(t)

		got := try.To(validate.Against(reg, []validate.RawVariable{
			{Name: domain.ExtraNamelistVariable, Value: "hist_nhtfrq = -24\nhist_mfilt = 365"},
		})).OrFatal(t)

		if got[0].Value != domain.StringValue("hist_nhtfrq = -24\nhist_mfilt = 365") {
			t.Errorf("passthrough text changed: %v", got[0].Value)
		}
	})

	t.Run("free-form namelist text must be a string", func(t *testing.T) {
		reg := testRegistry(t)

		_, err := validate.Against(reg, []validate.RawVariable{
			{Name: domain.ExtraNamelistVariable, Value: map[string]any{"hist_nhtfrq": -24}},
		})
		verr := new(validate.Error)
		if !errors.As(err, &verr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(verr.Problems) != 1 || verr.Problems[0].Variable != domain.ExtraNamelistVariable {
			t.Errorf("unexpected problems: %+v", verr.Problems)
		}
	})
}
