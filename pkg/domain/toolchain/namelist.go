package toolchain

import (
	"path/filepath"
	"strings"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

// namelist categories written into user_nl_clm.
func isNamelistCategory(c domain.VariableCategory) bool {
	switch c {
	case domain.CategoryUserNlClm, domain.CategoryUserNlClmHistory, domain.CategoryFates:
		return true
	default:
		return false
	}
}

// RenderUserNlClm renders the user_nl_clm content for a case.
//
// Variables appear one assignment per line, in the (name-sorted) order
// they are stored. The free-form passthrough text, when present, is
// appended verbatim at the end.
func RenderUserNlClm(c *domain.Case, dataDir string) string {
	lines := []string{}
	extra := ""

	for _, v := range c.Variables {
		if v.Name == domain.ExtraNamelistVariable {
			extra = v.Value.Literal()
			continue
		}
		if !isNamelistCategory(v.Category) {
			continue
		}
		lines = append(lines, v.Name+" = "+namelistValue(v, dataDir))
	}

	content := strings.Join(lines, "\n")
	if extra != "" {
		if content != "" {
			content += "\n"
		}
		content += extra
	}
	if content != "" {
		content += "\n"
	}
	return content
}

func namelistValue(v domain.CaseVariable, dataDir string) string {
	if !v.AppendInputPath {
		return v.Value.Namelist()
	}

	// file-referencing values are resolved against the case's data
	// directory before the model sees them.
	if list, ok := v.Value.(domain.ListValue); ok {
		joined := make([]string, 0, len(list))
		for _, e := range list {
			joined = append(joined, "'"+filepath.Join(dataDir, e.Literal())+"'")
		}
		return strings.Join(joined, ",")
	}
	return "'" + filepath.Join(dataDir, v.Value.Literal()) + "'"
}
