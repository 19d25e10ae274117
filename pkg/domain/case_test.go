package domain_test

import (
	"errors"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

func TestCaseStatus_CanTransit(t *testing.T) {
	for name, testcase := range map[string]struct {
		from domain.CaseStatus
		to   domain.CaseStatus
		want bool
	}{
		"initialised to created, allowed":     {domain.Initialised, domain.Created, true},
		"created to setup, skipping allowed":  {domain.Created, domain.Setup, true},
		"configured to building, allowed":     {domain.Configured, domain.Building, true},
		"built to input-data-ready, allowed":  {domain.Built, domain.InputDataReady, true},
		"submitted to building, going back":   {domain.Submitted, domain.Building, false},
		"setup to created, going back":        {domain.Setup, domain.Created, false},
		"created to created, self-loop":       {domain.Created, domain.Created, false},
		"anything to failed":                  {domain.Building, domain.Failed, true},
		"initialised to failed":               {domain.Initialised, domain.Failed, true},
		"failed stays failed":                 {domain.Failed, domain.Failed, false},
		"failed cannot recover":               {domain.Failed, domain.Created, false},
		"fates-params-updated repeats itself": {domain.FatesParamsUpdated, domain.FatesParamsUpdated, true},
		"fates-params-updated to rebuilt":     {domain.FatesParamsUpdated, domain.Rebuilt, true},
		"fates-indices-set to submitted":      {domain.FatesIndicesSet, domain.Submitted, true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.from.CanTransit(testcase.to); got != testcase.want {
				t.Errorf(
					"CanTransit(%s -> %s) = %v, expected %v",
					testcase.from, testcase.to, got, testcase.want,
				)
			}
		})
	}
}

func TestAsCaseStatus(t *testing.T) {
	t.Run("it accepts every known status", func(t *testing.T) {
		for _, s := range []domain.CaseStatus{
			domain.Initialised, domain.Created, domain.Updated, domain.Setup,
			domain.Configured, domain.Building, domain.Built,
			domain.InputDataReady, domain.FatesParamsUpdated, domain.Rebuilt,
			domain.FatesIndicesSet, domain.Submitted, domain.Failed,
		} {
			got, err := domain.AsCaseStatus(s.String())
			if err != nil {
				t.Errorf("AsCaseStatus(%s): unexpected error: %v", s, err)
			}
			if got != s {
				t.Errorf("AsCaseStatus(%s) = %s", s, got)
			}
		}
	})

	t.Run("it rejects unknown status", func(t *testing.T) {
		if _, err := domain.AsCaseStatus("sparkling"); err == nil {
			t.Error("no error for unknown status")
		}
	})
}

func TestNewErrInvalidCaseStateChanging(t *testing.T) {
	err := domain.NewErrInvalidCaseStateChanging(domain.Submitted, domain.Created)
	if !errors.Is(err, domain.ErrInvalidCaseStateChanging) {
		t.Errorf("error %v does not wrap ErrInvalidCaseStateChanging", err)
	}
}

func TestCase_FolderName(t *testing.T) {
	for name, testcase := range map[string]struct {
		caseName string
		want     string
	}{
		"without name":          {"", "0123abcd"},
		"with plain name":       {"spruce", "0123abcd_spruce"},
		"with spaces and caps":  {"My Test Case", "0123abcd_my-test-case"},
		"with trailing symbols": {"--hyland..", "0123abcd_hyland"},
	} {
		t.Run(name, func(t *testing.T) {
			c := domain.Case{
				CaseBody: domain.CaseBody{Id: "0123abcd", Name: testcase.caseName},
			}
			if got := c.FolderName(); got != testcase.want {
				t.Errorf("FolderName() = %s, expected %s", got, testcase.want)
			}
		})
	}
}
