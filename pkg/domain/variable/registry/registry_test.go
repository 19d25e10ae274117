package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
	"github.com/noresmhub/ctsm-api/pkg/utils/try"
)

func TestNew(t *testing.T) {
	t.Run("it indexes configs by name", func(t *testing.T) {
		reg := try.To(registry.New([]domain.VariableConfig{
			{Name: "STOP_N", Category: domain.CategoryCtsmXml, Type: domain.TypeInteger},
			{Name: "use_fates", Category: domain.CategoryUserNlClm, Type: domain.TypeLogical},
		})).OrFatal(t)

		conf, ok := reg.Find("use_fates")
		if !ok {
			t.Fatal("use_fates is not found")
		}
		if conf.Type != domain.TypeLogical {
			t.Errorf("unexpected type: %s", conf.Type)
		}
		if _, ok := reg.Find("no_such_variable"); ok {
			t.Error("found a variable which is not declared")
		}
	})

	t.Run("it rejects duplicated names", func(t *testing.T) {
		_, err := registry.New([]domain.VariableConfig{
			{Name: "STOP_N", Category: domain.CategoryCtsmXml, Type: domain.TypeInteger},
			{Name: "STOP_N", Category: domain.CategoryCtsmXml, Type: domain.TypeInteger},
		})
		if err == nil {
			t.Error("no error for duplicated name")
		}
	})

	t.Run("it rejects unknown category", func(t *testing.T) {
		_, err := registry.New([]domain.VariableConfig{
			{Name: "STOP_N", Category: "toml_xml", Type: domain.TypeInteger},
		})
		if err == nil {
			t.Error("no error for unknown category")
		}
	})

	t.Run("it rejects unknown type", func(t *testing.T) {
		_, err := registry.New([]domain.VariableConfig{
			{Name: "STOP_N", Category: domain.CategoryCtsmXml, Type: "number"},
		})
		if err == nil {
			t.Error("no error for unknown type")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("it reads a yaml document", func(t *testing.T) {
		doc := `
- name: STOP_OPTION
  category: ctsm_xml
  type: char
  validation:
    choices:
      - value: ndays
      - value: nmonths
      - value: nyears
- name: included_pft_indices
  category: fates_param
  type: integer
  allow_multiple: true
`
		path := filepath.Join(t.TempDir(), "variables.yaml")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}

		reg := try.To(registry.Load(path)).OrFatal(t)
		if reg.Len() != 2 {
			t.Fatalf("expected 2 configs, got %d", reg.Len())
		}

		stopOption, ok := reg.Find("STOP_OPTION")
		if !ok {
			t.Fatal("STOP_OPTION is not found")
		}
		if stopOption.Validation == nil || len(stopOption.Validation.Choices) != 3 {
			t.Errorf("unexpected validation: %+v", stopOption.Validation)
		}

		pft, ok := reg.Find("included_pft_indices")
		if !ok {
			t.Fatal("included_pft_indices is not found")
		}
		if !pft.AllowMultiple {
			t.Error("included_pft_indices should allow multiple values")
		}
	})

	t.Run("missing file means empty registry", func(t *testing.T) {
		reg := try.To(registry.Load(filepath.Join(t.TempDir(), "no-such.yaml"))).OrFatal(t)
		if reg.Len() != 0 {
			t.Errorf("expected empty registry, got %d configs", reg.Len())
		}
	})

	t.Run("broken yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "variables.yaml")
		if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := registry.Load(path); err == nil {
			t.Error("no error for broken yaml")
		}
	})
}
