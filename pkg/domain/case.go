package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/noresmhub/ctsm-api/pkg/utils/cmp"
)

// The driver to use with the toolchain's create_newcase script.
type CTSMDriver string

const (
	DriverNuopc CTSMDriver = "nuopc"
	DriverMct   CTSMDriver = "mct"
)

func (d CTSMDriver) String() string {
	return string(d)
}

func AsCTSMDriver(s string) (CTSMDriver, error) {
	switch s {
	case string(DriverNuopc):
		return DriverNuopc, nil
	case string(DriverMct):
		return DriverMct, nil
	default:
		return "", fmt.Errorf("'%s' is not CTSMDriver", s)
	}
}

type CaseStatus string

const (
	// This case is persisted, but no toolchain script has run for it yet.
	Initialised CaseStatus = "INITIALISED"

	// create_newcase exited successfully.
	Created CaseStatus = "CREATED"

	// xmlchange applied. Entered only when the case has ctsm_xml variables.
	Updated CaseStatus = "UPDATED"

	// case.setup exited successfully.
	Setup CaseStatus = "SETUP"

	// All namelist variables are written. Terminal status of the create phase.
	Configured CaseStatus = "CONFIGURED"

	// A run has been requested and its task dispatched.
	//
	// Set by the API before the task starts, so concurrent reads see
	// "in progress" rather than stale CONFIGURED.
	Building CaseStatus = "BUILDING"

	// case.build exited successfully.
	Built CaseStatus = "BUILT"

	// check_input_data completed.
	InputDataReady CaseStatus = "INPUT_DATA_READY"

	// One FATES parameter value has been written into the parameter file.
	// Repeats once per scalar of a multi-valued parameter.
	FatesParamsUpdated CaseStatus = "FATES_PARAMS_UPDATED"

	// case.build re-run after a namelist change discovered mid-run.
	Rebuilt CaseStatus = "REBUILT"

	// FATES parameter-file index remapping applied.
	FatesIndicesSet CaseStatus = "FATES_INDICES_SET"

	// case.submit exited successfully. Terminal status of the run phase.
	Submitted CaseStatus = "SUBMITTED"

	// A toolchain step failed. Terminal, but a new identical request
	// removes and recreates the case.
	Failed CaseStatus = "FAILED"
)

func (cs CaseStatus) String() string {
	return string(cs)
}

var caseStatusOrder = map[CaseStatus]int{
	Initialised:        0,
	Created:            1,
	Updated:            2,
	Setup:              3,
	Configured:         4,
	Building:           5,
	Built:              6,
	InputDataReady:     7,
	FatesParamsUpdated: 8,
	Rebuilt:            9,
	FatesIndicesSet:    10,
	Submitted:          11,
}

func AsCaseStatus(status string) (CaseStatus, error) {
	if _, ok := caseStatusOrder[CaseStatus(status)]; ok {
		return CaseStatus(status), nil
	}
	if status == string(Failed) {
		return Failed, nil
	}
	return "", fmt.Errorf("'%s' is not CaseStatus", status)
}

// CanTransit answers whether a case may move from this status to next.
//
// Statuses progress forward only (skipping is allowed), FAILED is
// reachable from every other status, and FATES_PARAMS_UPDATED may repeat
// itself once per parameter value.
func (cs CaseStatus) CanTransit(next CaseStatus) bool {
	if cs == Failed {
		return false
	}
	if next == Failed {
		return true
	}
	from, ok := caseStatusOrder[cs]
	if !ok {
		return false
	}
	to, ok := caseStatusOrder[next]
	if !ok {
		return false
	}
	if next == FatesParamsUpdated && cs == FatesParamsUpdated {
		return true
	}
	return from < to
}

// true when neither phase can make progress from this status anymore
// without a new request.
func (cs CaseStatus) Terminal() bool {
	switch cs {
	case Configured, Submitted, Failed:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidCaseStateChanging = errors.New("cannot change case state")
)

func NewErrInvalidCaseStateChanging(from, to CaseStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidCaseStateChanging, from, to)
}

// Environment variable names recorded per case and exported to every
// toolchain subprocess of that case.
const (
	EnvCaseFolderName = "CASE_FOLDER_NAME"
	EnvCaseDataRoot   = "CASE_DATA_ROOT"
)

// Core part of a case.
type CaseBody struct {
	// content hash of the case definition. Also the on-disk folder name.
	Id string

	// optional human-readable name, slugified into the folder name suffix.
	Name string

	Compset string
	Res     string
	Driver  CTSMDriver

	// URL or uploaded-content digest the input data comes from.
	DataUrl string

	// model version tag the case is pinned to.
	CtsmTag string

	Status CaseStatus

	CreatedAt time.Time
}

func (cb *CaseBody) Equal(o *CaseBody) bool {
	if (cb == nil) || (o == nil) {
		return (cb == nil) && (o == nil)
	}
	return cb.Id == o.Id &&
		cb.Name == o.Name &&
		cb.Compset == o.Compset &&
		cb.Res == o.Res &&
		cb.Driver == o.Driver &&
		cb.DataUrl == o.DataUrl &&
		cb.CtsmTag == o.CtsmTag &&
		cb.Status == o.Status &&
		cb.CreatedAt.Equal(o.CreatedAt)
}

type Case struct {
	CaseBody

	// validated variables, sorted by name.
	Variables []CaseVariable

	// derived paths handed to toolchain subprocesses.
	Env map[string]string

	// handle of the create-phase task. Empty when not dispatched.
	CreateTaskId string

	// handle of the run-phase task. Empty when not dispatched.
	RunTaskId string
}

func (c *Case) Equal(o *Case) bool {
	return c.CaseBody.Equal(&o.CaseBody) &&
		cmp.SliceEqWith(
			c.Variables, o.Variables,
			func(a, b CaseVariable) bool { return a.Equal(b) },
		) &&
		cmp.MapEq(c.Env, o.Env) &&
		c.CreateTaskId == o.CreateTaskId &&
		c.RunTaskId == o.RunTaskId
}

// FolderName is the directory name of the case under the cases root:
// the case id, suffixed with the slugified case name when one is set.
func (c *Case) FolderName() string {
	if c.Name == "" {
		return c.Id
	}
	return c.Id + "_" + Slugify(c.Name)
}

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify renders s as a lowercase, hyphen-separated path segment.
func Slugify(s string) string {
	s = nonSlugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
