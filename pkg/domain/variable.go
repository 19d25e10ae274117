package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

type VariableType string

const (
	TypeChar    VariableType = "char"
	TypeInteger VariableType = "integer"
	TypeFloat   VariableType = "float"
	TypeLogical VariableType = "logical"
	TypeDate    VariableType = "date"
)

func (vt VariableType) String() string {
	return string(vt)
}

func AsVariableType(s string) (VariableType, error) {
	switch VariableType(s) {
	case TypeChar, TypeInteger, TypeFloat, TypeLogical, TypeDate:
		return VariableType(s), nil
	default:
		return "", fmt.Errorf("'%s' is not VariableType", s)
	}
}

// VariableCategory tells which toolchain surface a variable is written to.
type VariableCategory string

const (
	CategoryCtsmXml          VariableCategory = "ctsm_xml"
	CategoryUserNlClm        VariableCategory = "user_nl_clm"
	CategoryUserNlClmHistory VariableCategory = "user_nl_clm_history_file"
	CategoryFates            VariableCategory = "fates"
	CategoryFatesParam       VariableCategory = "fates_param"
)

func (vc VariableCategory) String() string {
	return string(vc)
}

func AsVariableCategory(s string) (VariableCategory, error) {
	switch VariableCategory(s) {
	case CategoryCtsmXml, CategoryUserNlClm, CategoryUserNlClmHistory,
		CategoryFates, CategoryFatesParam:
		return VariableCategory(s), nil
	default:
		return "", fmt.Errorf("'%s' is not VariableCategory", s)
	}
}

// Names with hardwired handling in validation and the toolchain.
const (
	// free-form namelist text appended to user_nl_clm verbatim.
	ExtraNamelistVariable = "user_nl_clm_extra"

	// FATES PFT index selection driving the parameter-file remapping.
	IncludedPftIndices = "included_pft_indices"
)

// Value is one validated, typed variable value.
//
// A Value knows its native Go representation and how it is spelled
// in a Fortran namelist.
type Value interface {
	// Native returns the value as it is serialized to JSON and the database.
	Native() any

	// Literal returns the bare literal, without namelist quoting.
	Literal() string

	// Namelist returns the value as written on the right-hand side of a
	// namelist assignment.
	Namelist() string
}

type IntValue int64

func (v IntValue) Native() any      { return int64(v) }
func (v IntValue) Literal() string  { return strconv.FormatInt(int64(v), 10) }
func (v IntValue) Namelist() string { return v.Literal() }

type FloatValue float64

func (v FloatValue) Native() any      { return float64(v) }
func (v FloatValue) Literal() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v FloatValue) Namelist() string { return v.Literal() }

// char and date values. Quoted in namelists.
type StringValue string

func (v StringValue) Native() any      { return string(v) }
func (v StringValue) Literal() string  { return string(v) }
func (v StringValue) Namelist() string { return "'" + string(v) + "'" }

type BoolValue bool

func (v BoolValue) Native() any { return bool(v) }
func (v BoolValue) Literal() string {
	if v {
		return "true"
	}
	return "false"
}
func (v BoolValue) Namelist() string {
	if v {
		return ".true."
	}
	return ".false."
}

// ListValue is a multi-valued variable. Elements share the variable's type.
type ListValue []Value

func (v ListValue) Native() any {
	return slices.Map(v, func(e Value) any { return e.Native() })
}
func (v ListValue) Literal() string {
	return strings.Join(
		slices.Map(v, func(e Value) string { return e.Literal() }), ",",
	)
}
func (v ListValue) Namelist() string {
	return strings.Join(
		slices.Map(v, func(e Value) string { return e.Namelist() }), ",",
	)
}

// strings the original tooling treats as true for logical variables.
var truthyWords = map[string]bool{
	"y": true, "yes": true, "t": true, "true": true, "on": true, "1": true,
	"n": false, "no": false, "f": false, "false": false, "off": false, "0": false,
}

// CoerceValue converts a raw (JSON-decoded) value into a typed Value of t.
//
// Scalars only. For list-typed variables coerce each element separately
// and wrap them in a ListValue.
func CoerceValue(raw any, t VariableType) (Value, error) {
	switch t {
	case TypeInteger:
		switch v := raw.(type) {
		case int:
			return IntValue(v), nil
		case int64:
			return IntValue(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%v is not an integer", v)
			}
			return IntValue(int64(v)), nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("'%s' is not an integer", v)
			}
			return IntValue(i), nil
		}
		return nil, fmt.Errorf("%v (%T) is not an integer", raw, raw)
	case TypeFloat:
		switch v := raw.(type) {
		case int:
			return FloatValue(v), nil
		case int64:
			return FloatValue(v), nil
		case float64:
			return FloatValue(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("'%s' is not a float", v)
			}
			return FloatValue(f), nil
		}
		return nil, fmt.Errorf("%v (%T) is not a float", raw, raw)
	case TypeLogical:
		switch v := raw.(type) {
		case bool:
			return BoolValue(v), nil
		case int:
			return BoolValue(v != 0), nil
		case int64:
			return BoolValue(v != 0), nil
		case float64:
			return BoolValue(v != 0), nil
		case string:
			b, ok := truthyWords[strings.ToLower(strings.TrimSpace(v))]
			if !ok {
				return nil, fmt.Errorf("'%s' is not a logical", v)
			}
			return BoolValue(b), nil
		}
		return nil, fmt.Errorf("%v (%T) is not a logical", raw, raw)
	case TypeChar, TypeDate:
		switch v := raw.(type) {
		case string:
			return StringValue(v), nil
		case bool:
			return StringValue(BoolValue(v).Literal()), nil
		case int:
			return StringValue(strconv.Itoa(v)), nil
		case int64:
			return StringValue(strconv.FormatInt(v, 10)), nil
		case float64:
			if v == math.Trunc(v) && math.Abs(v) < 1e15 {
				return StringValue(strconv.FormatInt(int64(v), 10)), nil
			}
			return StringValue(strconv.FormatFloat(v, 'g', -1, 64)), nil
		}
		return nil, fmt.Errorf("%v (%T) is not a %s", raw, raw, t)
	default:
		return nil, fmt.Errorf("'%s' is not VariableType", t)
	}
}

// CaseVariable is a validated variable bound to a case.
//
// Category, Type and AppendInputPath are copied from the registry at
// validation time, so later stages never look the variable up again.
type CaseVariable struct {
	Name     string
	Value    Value
	Category VariableCategory
	Type     VariableType

	// join the value with the case's data root before handing it to
	// the toolchain.
	AppendInputPath bool
}

func (cv CaseVariable) Equal(o CaseVariable) bool {
	return cv.Name == o.Name &&
		cv.Category == o.Category &&
		cv.Type == o.Type &&
		cv.AppendInputPath == o.AppendInputPath &&
		valueEq(cv.Value, o.Value)
}

func valueEq(a, b Value) bool {
	if (a == nil) || (b == nil) {
		return (a == nil) && (b == nil)
	}
	la, aIsList := a.(ListValue)
	lb, bIsList := b.(ListValue)
	if aIsList != bIsList {
		return false
	}
	if aIsList {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !valueEq(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

type caseVariableEnvelope struct {
	Name            string           `json:"name"`
	Value           any              `json:"value"`
	Category        VariableCategory `json:"category"`
	Type            VariableType     `json:"type"`
	AppendInputPath bool             `json:"append_input_path,omitempty"`
}

func (cv CaseVariable) MarshalJSON() ([]byte, error) {
	var native any
	if cv.Value != nil {
		native = cv.Value.Native()
	}
	return json.Marshal(caseVariableEnvelope{
		Name: cv.Name, Value: native, Category: cv.Category, Type: cv.Type,
		AppendInputPath: cv.AppendInputPath,
	})
}

func (cv *CaseVariable) UnmarshalJSON(data []byte) error {
	env := caseVariableEnvelope{}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	val, err := reviveValue(env.Value, env.Type)
	if err != nil {
		return fmt.Errorf("variable %s: %w", env.Name, err)
	}
	*cv = CaseVariable{
		Name: env.Name, Value: val, Category: env.Category, Type: env.Type,
		AppendInputPath: env.AppendInputPath,
	}
	return nil
}

func reviveValue(raw any, t VariableType) (Value, error) {
	if raw == nil {
		return nil, nil
	}
	if list, ok := raw.([]any); ok {
		revived := make(ListValue, 0, len(list))
		for _, e := range list {
			v, err := CoerceValue(e, t)
			if err != nil {
				return nil, err
			}
			revived = append(revived, v)
		}
		return revived, nil
	}
	return CoerceValue(raw, t)
}

// SortVariables orders vs by name, in place.
func SortVariables(vs []CaseVariable) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Name < vs[j].Name })
}

// VariableChoice is one allowed value of a constrained variable.
type VariableChoice struct {
	Value any    `yaml:"value" json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// VariableValidation constrains the values a variable accepts.
type VariableValidation struct {
	Min          *float64         `yaml:"min,omitempty" json:"min,omitempty"`
	Max          *float64         `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern      string           `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	PatternError string           `yaml:"pattern_error,omitempty" json:"pattern_error,omitempty"`
	Choices      []VariableChoice `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// VariableConfig is one entry of the variable registry document.
type VariableConfig struct {
	Name          string              `yaml:"name" json:"name"`
	Category      VariableCategory    `yaml:"category" json:"category"`
	Type          VariableType        `yaml:"type" json:"type"`
	Description   string              `yaml:"description,omitempty" json:"description,omitempty"`
	Readonly      bool                `yaml:"readonly,omitempty" json:"readonly,omitempty"`
	Hidden        bool                `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	AllowMultiple bool                `yaml:"allow_multiple,omitempty" json:"allow_multiple,omitempty"`
	AllowCustom   bool                `yaml:"allow_custom,omitempty" json:"allow_custom,omitempty"`
	Default       any                 `yaml:"default,omitempty" json:"default,omitempty"`
	Validation    *VariableValidation `yaml:"validation,omitempty" json:"validation,omitempty"`

	// join the value with the case's data root before handing it to
	// the toolchain.
	AppendInputPath bool `yaml:"append_input_path,omitempty" json:"append_input_path,omitempty"`
}
