package sites

import (
	"github.com/noresmhub/ctsm-api-types/cases"
)

// Summary is one entry of the site catalog.
type Summary struct {
	Name    string  `json:"name"`
	Compset string  `json:"compset"`
	Res     string  `json:"res"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	DataUrl string  `json:"dataUrl"`
}

func (s Summary) Equal(o Summary) bool {
	return s == o
}

// Detail is a catalog site together with the case built for it, if any.
type Detail struct {
	Summary
	CaseId string `json:"caseId,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d == o
}

// CaseSpec is the request body for creating a case bound to a site.
// Compset, resolution and data URL come from the catalog entry.
type CaseSpec struct {
	Driver    string           `json:"driver"`
	Variables []cases.Variable `json:"variables"`
}
