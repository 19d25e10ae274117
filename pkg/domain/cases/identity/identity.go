// Package identity derives the content-based id of a case.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

// ComputeId digests the full definition of a case into its id.
//
// variables MUST already be sorted by name (the validator does that),
// so that the id does not depend on client-supplied ordering. The id
// doubles as the case's directory name, so it has to be a plain hex
// string. md5 is used as a 128-bit content hash, not for security.
func ComputeId(
	compset string,
	res string,
	variables []domain.CaseVariable,
	dataRef string,
	driver domain.CTSMDriver,
	ctsmTag string,
) string {
	serialized := strings.Join(
		slices.Map(variables, func(v domain.CaseVariable) string {
			return v.Name + "=" + v.Value.Literal()
		}),
		",",
	)
	digest := md5.Sum([]byte(strings.Join(
		[]string{compset, res, serialized, dataRef, driver.String(), ctsmTag},
		"_",
	)))
	return hex.EncodeToString(digest[:])
}
