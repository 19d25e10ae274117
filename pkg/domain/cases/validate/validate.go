// Package validate checks raw case variables against the variable registry
// and turns them into typed, name-sorted case variables.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

// RawVariable is a variable as it arrives from the client,
// before any checking.
type RawVariable struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Problem is one rejected variable and the reason.
type Problem struct {
	Variable string `json:"variable"`
	Message  string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Variable, p.Message)
}

// Error carries every Problem found in a request.
//
// Validation is atomic: when this error is returned, none of the
// variables have been accepted.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	return "invalid variables: " + strings.Join(
		slices.Map(e.Problems, Problem.String), "; ",
	)
}

// Against validates raw against reg.
//
// Valid inputs yield typed variables sorted by name. Any invalid
// variable fails the whole set, and the returned *Error names every
// offending variable.
func Against(reg *registry.Registry, raw []RawVariable) ([]domain.CaseVariable, error) {
	validated := []domain.CaseVariable{}
	problems := []Problem{}

	for _, rv := range raw {
		v, probs := validateOne(reg, rv)
		if 0 < len(probs) {
			problems = append(problems, probs...)
			continue
		}
		validated = append(validated, v)
	}

	if 0 < len(problems) {
		return nil, &Error{Problems: problems}
	}

	domain.SortVariables(validated)
	return validated, nil
}

func validateOne(reg *registry.Registry, rv RawVariable) (domain.CaseVariable, []Problem) {
	// free-form namelist text. The one escape hatch from the schema.
	if rv.Name == domain.ExtraNamelistVariable {
		text, ok := rv.Value.(string)
		if !ok {
			return domain.CaseVariable{}, []Problem{
				{Variable: rv.Name, Message: "free-form namelist text must be a string"},
			}
		}
		return domain.CaseVariable{
			Name:     rv.Name,
			Value:    domain.StringValue(text),
			Category: domain.CategoryUserNlClm,
			Type:     domain.TypeChar,
		}, nil
	}

	conf, ok := reg.Find(rv.Name)
	if !ok {
		return domain.CaseVariable{}, []Problem{
			{Variable: rv.Name, Message: "unknown variable"},
		}
	}

	value := rv.Value
	if rv.Name == domain.IncludedPftIndices {
		split, err := splitIndices(value)
		if err != nil {
			return domain.CaseVariable{}, []Problem{
				{Variable: rv.Name, Message: err.Error()},
			}
		}
		value = split
	}

	elements, isList := value.([]any)
	if !isList {
		elements = []any{value}
	}
	if !conf.AllowMultiple && 1 < len(elements) {
		return domain.CaseVariable{}, []Problem{{
			Variable: rv.Name,
			Message:  fmt.Sprintf("%d values given, but only one is allowed", len(elements)),
		}}
	}
	if len(elements) == 0 {
		return domain.CaseVariable{}, []Problem{
			{Variable: rv.Name, Message: "no value given"},
		}
	}

	problems := []Problem{}
	coerced := make(domain.ListValue, 0, len(elements))
	for _, e := range elements {
		v, err := domain.CoerceValue(e, conf.Type)
		if err != nil {
			problems = append(problems, Problem{Variable: rv.Name, Message: err.Error()})
			continue
		}
		if err := checkRules(conf, v); err != nil {
			problems = append(problems, Problem{Variable: rv.Name, Message: err.Error()})
			continue
		}
		coerced = append(coerced, v)
	}
	if 0 < len(problems) {
		return domain.CaseVariable{}, problems
	}

	var val domain.Value = coerced
	if !conf.AllowMultiple {
		val = coerced[0]
	}

	return domain.CaseVariable{
		Name:            conf.Name,
		Value:           val,
		Category:        conf.Category,
		Type:            conf.Type,
		AppendInputPath: conf.AppendInputPath,
	}, nil
}

// splitIndices expands the comma-separated spelling of the FATES PFT
// index selection into discrete values.
func splitIndices(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	parts := strings.Split(s, ",")
	indices := make([]any, 0, len(parts))
	for _, p := range parts {
		v, err := domain.CoerceValue(strings.TrimSpace(p), domain.TypeInteger)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a comma-separated list of integers", s)
		}
		indices = append(indices, v.Native())
	}
	return indices, nil
}

func checkRules(conf domain.VariableConfig, v domain.Value) error {
	rules := conf.Validation
	if rules == nil {
		return nil
	}

	if 0 < len(rules.Choices) && !conf.AllowCustom {
		for _, choice := range rules.Choices {
			allowed, err := domain.CoerceValue(choice.Value, conf.Type)
			if err != nil {
				continue
			}
			if allowed == v {
				return nil
			}
		}
		return fmt.Errorf("%s is not in the allowed choices", v.Literal())
	}

	switch n := v.(type) {
	case domain.IntValue:
		return checkBounds(float64(n), rules)
	case domain.FloatValue:
		return checkBounds(float64(n), rules)
	case domain.StringValue:
		return checkPattern(string(n), rules)
	}
	return nil
}

func checkBounds(n float64, rules *domain.VariableValidation) error {
	if rules.Min != nil && n < *rules.Min {
		return fmt.Errorf("%v is less than the minimum %v", n, *rules.Min)
	}
	if rules.Max != nil && *rules.Max < n {
		return fmt.Errorf("%v is more than the maximum %v", n, *rules.Max)
	}
	return nil
}

func checkPattern(s string, rules *domain.VariableValidation) error {
	if rules.Pattern == "" {
		return nil
	}
	re, err := regexp.Compile(rules.Pattern)
	if err != nil {
		return fmt.Errorf("broken pattern in variable config: %w", err)
	}
	if !re.MatchString(s) {
		if rules.PatternError != "" {
			return fmt.Errorf("%s", rules.PatternError)
		}
		return fmt.Errorf("'%s' does not match the pattern %s", s, rules.Pattern)
	}
	return nil
}
