package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	apicases "github.com/noresmhub/ctsm-api-types/cases"
	"github.com/noresmhub/ctsm-api/cmd/ctsmd/handlers"
	httptestutil "github.com/noresmhub/ctsm-api/internal/testutils/http"
)

func TestGetVariablesHandler(t *testing.T) {
	t.Run("it exposes the whole registry", func(t *testing.T) {
		testee := handlers.GetVariablesHandler(testRegistry(t))

		e := echo.New()
		ctx, resp := httptestutil.Get(e, "/api/variables/")

		if err := testee(ctx); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}

		configs := []apicases.VariableConfig{}
		if err := json.Unmarshal(resp.Body.Bytes(), &configs); err != nil {
			t.Fatalf("response is not json: %s", err)
		}
		if len(configs) != 3 {
			t.Fatalf("unexpected configs: %+v", configs)
		}
		names := map[string]bool{}
		for _, c := range configs {
			names[c.Name] = true
			if c.Category == "" || c.Type == "" {
				t.Errorf("config %s misses its classification: %+v", c.Name, c)
			}
		}
		for _, expected := range []string{"STOP_N", "STOP_OPTION", "hist_empty_htapes"} {
			if !names[expected] {
				t.Errorf("%s is not exposed", expected)
			}
		}
	})
}

func TestGetModelInfoHandler(t *testing.T) {
	t.Run("it describes the model checkout", func(t *testing.T) {
		testee := handlers.GetModelInfoHandler("ctsm5.3.0")

		e := echo.New()
		ctx, resp := httptestutil.Get(e, "/api/model-info/")

		if err := testee(ctx); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		info := apicases.ModelInfo{}
		if err := json.Unmarshal(resp.Body.Bytes(), &info); err != nil {
			t.Fatalf("response is not json: %s", err)
		}
		if info.Model != "ctsm" || info.Tag != "ctsm5.3.0" {
			t.Errorf("unexpected model info: %+v", info)
		}
		if len(info.Drivers) != 2 {
			t.Errorf("unexpected drivers: %+v", info.Drivers)
		}
	})
}
