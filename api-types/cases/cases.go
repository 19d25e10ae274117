package cases

import (
	"reflect"

	"github.com/noresmhub/ctsm-api-types/misc/rfctime"
	"github.com/noresmhub/ctsm-api-types/tasks"
)

// Variable is a case configuration variable on the wire.
//
// Inbound (in CaseSpec) only Name and Value are read.
// Outbound, Category and Type carry the registry classification of the
// validated variable.
type Variable struct {
	Name     string `json:"name"`
	Value    any    `json:"value"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
}

func (v Variable) Equal(o Variable) bool {
	return v.Name == o.Name &&
		v.Category == o.Category &&
		v.Type == o.Type &&
		reflect.DeepEqual(v.Value, o.Value)
}

// CaseSpec is the request body for creating a case.
type CaseSpec struct {
	Name      string     `json:"name,omitempty"`
	Compset   string     `json:"compset"`
	Res       string     `json:"res"`
	Driver    string     `json:"driver"`
	DataUrl   string     `json:"dataUrl"`
	Variables []Variable `json:"variables"`
}

type Summary struct {
	CaseId    string          `json:"caseId"`
	Name      string          `json:"name,omitempty"`
	Compset   string          `json:"compset"`
	Res       string          `json:"res"`
	Driver    string          `json:"driver"`
	DataUrl   string          `json:"dataUrl"`
	CtsmTag   string          `json:"ctsmTag"`
	Status    string          `json:"status"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (s Summary) Equal(o Summary) bool {
	return s.CaseId == o.CaseId &&
		s.Name == o.Name &&
		s.Compset == o.Compset &&
		s.Res == o.Res &&
		s.Driver == o.Driver &&
		s.DataUrl == o.DataUrl &&
		s.CtsmTag == o.CtsmTag &&
		s.Status == o.Status &&
		s.CreatedAt.Equal(o.CreatedAt)
}

// Detail is a case composed with the live status of its background tasks.
type Detail struct {
	Summary
	Variables []Variable `json:"variables"`
	Create    tasks.Info `json:"create"`
	Run       tasks.Info `json:"run"`
}

func (d Detail) Equal(o Detail) bool {
	if len(d.Variables) != len(o.Variables) {
		return false
	}
	for i := range d.Variables {
		if !d.Variables[i].Equal(o.Variables[i]) {
			return false
		}
	}
	return d.Summary.Equal(o.Summary) &&
		d.Create.Equal(o.Create) &&
		d.Run.Equal(o.Run)
}

// Choice is one allowed value of a variable, with an optional display label.
type Choice struct {
	Value any    `json:"value"`
	Label string `json:"label,omitempty"`
}

type Validation struct {
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	PatternError string   `json:"patternError,omitempty"`
	Choices      []Choice `json:"choices,omitempty"`
}

// VariableConfig is one entry of the variable registry document, as exposed
// to clients.
type VariableConfig struct {
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Type            string      `json:"type"`
	AllowMultiple   bool        `json:"allowMultiple"`
	AllowCustom     bool        `json:"allowCustom"`
	Readonly        bool        `json:"readonly"`
	Hidden          bool        `json:"hidden"`
	AppendInputPath bool        `json:"appendInputPath"`
	Validation      *Validation `json:"validation,omitempty"`
	Default         any         `json:"default,omitempty"`
	Description     string      `json:"description,omitempty"`
}

// ModelInfo describes the toolchain installation backing the service.
type ModelInfo struct {
	Model   string   `json:"model"`
	Tag     string   `json:"tag"`
	Drivers []string `json:"drivers"`
}
