package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

func TestCoerceValue(t *testing.T) {
	for name, testcase := range map[string]struct {
		raw     any
		vtype   domain.VariableType
		want    domain.Value
		wantErr bool
	}{
		"integer from int":             {42, domain.TypeInteger, domain.IntValue(42), false},
		"integer from integral float":  {float64(7), domain.TypeInteger, domain.IntValue(7), false},
		"integer from string":          {" 12 ", domain.TypeInteger, domain.IntValue(12), false},
		"integer from fraction":        {2.5, domain.TypeInteger, nil, true},
		"integer from word":            {"twelve", domain.TypeInteger, nil, true},
		"float from int":               {3, domain.TypeFloat, domain.FloatValue(3), false},
		"float from float":             {2.5, domain.TypeFloat, domain.FloatValue(2.5), false},
		"float from string":            {"0.125", domain.TypeFloat, domain.FloatValue(0.125), false},
		"float from word":              {"pi", domain.TypeFloat, nil, true},
		"logical from bool":            {true, domain.TypeLogical, domain.BoolValue(true), false},
		"logical from yes":             {"yes", domain.TypeLogical, domain.BoolValue(true), false},
		"logical from capital Y":       {"Y", domain.TypeLogical, domain.BoolValue(true), false},
		"logical from off":             {"off", domain.TypeLogical, domain.BoolValue(false), false},
		"logical from nonzero":         {float64(2), domain.TypeLogical, domain.BoolValue(true), false},
		"logical from zero":            {0, domain.TypeLogical, domain.BoolValue(false), false},
		"logical from word":            {"maybe", domain.TypeLogical, nil, true},
		"char from string":             {"CLM50", domain.TypeChar, domain.StringValue("CLM50"), false},
		"char from int":                {2000, domain.TypeChar, domain.StringValue("2000"), false},
		"char from integral float":     {float64(2000), domain.TypeChar, domain.StringValue("2000"), false},
		"char from bool":               {true, domain.TypeChar, domain.StringValue("true"), false},
		"date from string":             {"2000-01-01", domain.TypeDate, domain.StringValue("2000-01-01"), false},
		"unknown type":                 {"x", domain.VariableType("blob"), nil, true},
		"integer from incoercible map": {map[string]any{}, domain.TypeInteger, nil, true},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := domain.CoerceValue(testcase.raw, testcase.vtype)
			if testcase.wantErr {
				if err == nil {
					t.Errorf("no error for %v as %s", testcase.raw, testcase.vtype)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != testcase.want {
				t.Errorf("CoerceValue(%v, %s) = %v, expected %v", testcase.raw, testcase.vtype, got, testcase.want)
			}
		})
	}
}

func TestValue_Namelist(t *testing.T) {
	for name, testcase := range map[string]struct {
		value domain.Value
		want  string
	}{
		"integer":       {domain.IntValue(5), "5"},
		"float":         {domain.FloatValue(0.5), "0.5"},
		"char quoted":   {domain.StringValue("OBS"), "'OBS'"},
		"logical true":  {domain.BoolValue(true), ".true."},
		"logical false": {domain.BoolValue(false), ".false."},
		"char list": {
			domain.ListValue{domain.StringValue("TLAI"), domain.StringValue("TSA")},
			"'TLAI','TSA'",
		},
		"integer list": {
			domain.ListValue{domain.IntValue(1), domain.IntValue(6)},
			"1,6",
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.value.Namelist(); got != testcase.want {
				t.Errorf("Namelist() = %s, expected %s", got, testcase.want)
			}
		})
	}
}

func TestCaseVariable_JSON(t *testing.T) {
	for name, testcase := range map[string]domain.CaseVariable{
		"integer variable": {
			Name: "STOP_N", Value: domain.IntValue(3),
			Category: domain.CategoryCtsmXml, Type: domain.TypeInteger,
		},
		"logical variable": {
			Name: "use_fates", Value: domain.BoolValue(true),
			Category: domain.CategoryUserNlClm, Type: domain.TypeLogical,
		},
		"char list variable": {
			Name: "hist_fincl1",
			Value: domain.ListValue{
				domain.StringValue("TLAI"), domain.StringValue("GPP"),
			},
			Category: domain.CategoryUserNlClmHistory, Type: domain.TypeChar,
		},
		"integer list variable": {
			Name: "included_pft_indices",
			Value: domain.ListValue{
				domain.IntValue(1), domain.IntValue(2), domain.IntValue(6),
			},
			Category: domain.CategoryFatesParam, Type: domain.TypeInteger,
		},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(testcase)
			if err != nil {
				t.Fatal(err)
			}
			got := domain.CaseVariable{}
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}
			if !got.Equal(testcase) {
				t.Errorf("round-trip changed the variable: %+v != %+v", got, testcase)
			}
		})
	}
}

func TestSortVariables(t *testing.T) {
	vs := []domain.CaseVariable{
		{Name: "STOP_OPTION"},
		{Name: "DATM_YR_END"},
		{Name: "use_fates"},
		{Name: "CLM_USRDAT_DIR"},
	}
	domain.SortVariables(vs)

	expected := []string{"CLM_USRDAT_DIR", "DATM_YR_END", "STOP_OPTION", "use_fates"}
	for i, want := range expected {
		if vs[i].Name != want {
			t.Errorf("position %d: got %s, expected %s", i, vs[i].Name, want)
		}
	}
}
