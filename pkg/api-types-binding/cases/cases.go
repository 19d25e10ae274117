package cases

import (
	"github.com/noresmhub/ctsm-api-types/cases"
	"github.com/noresmhub/ctsm-api-types/misc/rfctime"
	bindtasks "github.com/noresmhub/ctsm-api/pkg/api-types-binding/tasks"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

func ComposeSummary(c domain.CaseBody) cases.Summary {
	return cases.Summary{
		CaseId:    c.Id,
		Name:      c.Name,
		Compset:   c.Compset,
		Res:       c.Res,
		Driver:    string(c.Driver),
		DataUrl:   c.DataUrl,
		CtsmTag:   c.CtsmTag,
		Status:    string(c.Status),
		CreatedAt: rfctime.RFC3339(c.CreatedAt),
	}
}

func ComposeVariable(v domain.CaseVariable) cases.Variable {
	var value any
	if v.Value != nil {
		value = v.Value.Native()
	}
	return cases.Variable{
		Name:     v.Name,
		Value:    value,
		Category: string(v.Category),
		Type:     string(v.Type),
	}
}

func ComposeDetail(c domain.CaseWithTaskInfo) cases.Detail {
	return cases.Detail{
		Summary:   ComposeSummary(c.CaseBody),
		Variables: slices.Map(c.Variables, ComposeVariable),
		Create:    bindtasks.Compose(c.Create),
		Run:       bindtasks.Compose(c.Run),
	}
}

func ComposeVariableConfig(vc domain.VariableConfig) cases.VariableConfig {
	var validation *cases.Validation
	if v := vc.Validation; v != nil {
		validation = &cases.Validation{
			Min:          v.Min,
			Max:          v.Max,
			Pattern:      v.Pattern,
			PatternError: v.PatternError,
			Choices: slices.Map(v.Choices, func(c domain.VariableChoice) cases.Choice {
				return cases.Choice{Value: c.Value, Label: c.Label}
			}),
		}
	}
	return cases.VariableConfig{
		Name:            vc.Name,
		Category:        string(vc.Category),
		Type:            string(vc.Type),
		AllowMultiple:   vc.AllowMultiple,
		AllowCustom:     vc.AllowCustom,
		Readonly:        vc.Readonly,
		Hidden:          vc.Hidden,
		AppendInputPath: vc.AppendInputPath,
		Validation:      validation,
		Default:         vc.Default,
		Description:     vc.Description,
	}
}
