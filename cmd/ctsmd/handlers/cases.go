package handlers

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	apicases "github.com/noresmhub/ctsm-api-types/cases"
	bindcases "github.com/noresmhub/ctsm-api/pkg/api-types-binding/cases"
	binderr "github.com/noresmhub/ctsm-api/pkg/api-types-binding/errors"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases/validate"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	"github.com/noresmhub/ctsm-api/pkg/domain/toolchain"
	"github.com/noresmhub/ctsm-api/pkg/utils/archive"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

// PostCaseHandler creates a case, or returns the existing one when an
// identical case has been requested before.
func PostCaseHandler(service *cases.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		if strings.ToLower(req.Header.Get("content-type")) != "application/json" {
			return binderr.BadRequest(
				"unexpected content type. it shoule be application/json", nil,
			)
		}

		spec := new(apicases.CaseSpec)
		if err := json.NewDecoder(req.Body).Decode(spec); err != nil {
			return binderr.BadRequest(
				"can not understand the requested json", err,
			)
		}

		def, err := definitionOf(*spec)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		created, err := service.CreateOrReuse(ctx, def)
		if err != nil {
			verr := new(validate.Error)
			if errors.As(err, &verr) {
				return binderr.BadRequest(verr.Error(), verr)
			}
			return binderr.InternalServerError(err)
		}

		return c.JSON(200, bindcases.ComposeDetail(created))
	}
}

// GetCasesHandler lists every case with the live status of its tasks.
func GetCasesHandler(service *cases.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		all, err := service.GetAll(ctx)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(200, slices.Map(all, bindcases.ComposeDetail))
	}
}

// GetCaseHandler retrieves the case identified by the caseId path param.
func GetCaseHandler(service *cases.Service, caseIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		caseId := c.Param(caseIdParam)

		found, err := service.Get(ctx, caseId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}
		return c.JSON(200, bindcases.ComposeDetail(found))
	}
}

// RunCaseHandler dispatches the run phase of a CONFIGURED case.
func RunCaseHandler(service *cases.Service, caseIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		caseId := c.Param(caseIdParam)

		running, err := service.Run(ctx, caseId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return binderr.NotFound()
			}
			// ErrInvalidCaseStateChanging means a concurrent run request
			// moved the case first. Same answer as a case not ready.
			if errors.Is(err, cases.ErrNotRunnable) ||
				errors.Is(err, domain.ErrInvalidCaseStateChanging) {
				return binderr.Conflict(
					"case is not ready to run",
					binderr.WithAdvice("wait until the case reaches CONFIGURED, then retry"),
					binderr.WithError(err),
				)
			}
			return binderr.InternalServerError(err)
		}
		return c.JSON(200, bindcases.ComposeDetail(running))
	}
}

// DeleteCaseHandler removes a case, its tasks and its on-disk artifacts.
func DeleteCaseHandler(service *cases.Service, caseIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		caseId := c.Param(caseIdParam)

		if err := service.Remove(ctx, caseId); err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}
		return c.NoContent(204)
	}
}

// DownloadCaseHandler serves the case directory as a zip archive.
//
// The archive is built on first download and cached until the case is
// removed.
func DownloadCaseHandler(service *cases.Service, tc *toolchain.Toolchain, caseIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		caseId := c.Param(caseIdParam)

		found, err := service.Get(ctx, caseId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		dest := tc.ArchivePath(&found.Case)
		if _, err := os.Stat(dest); err != nil {
			if !os.IsNotExist(err) {
				return binderr.InternalServerError(err)
			}
			if err := archive.ZipDir(ctx, tc.CaseDir(&found.Case), dest); err != nil {
				return binderr.InternalServerError(err)
			}
		}
		return c.Attachment(dest, found.FolderName()+".zip")
	}
}

func definitionOf(spec apicases.CaseSpec) (cases.Definition, error) {
	driver := domain.DriverNuopc
	if spec.Driver != "" {
		d, err := domain.AsCTSMDriver(spec.Driver)
		if err != nil {
			return cases.Definition{}, err
		}
		driver = d
	}

	return cases.Definition{
		Name:    spec.Name,
		Compset: spec.Compset,
		Res:     spec.Res,
		Driver:  driver,
		DataUrl: spec.DataUrl,
		Variables: slices.Map(spec.Variables, func(v apicases.Variable) validate.RawVariable {
			return validate.RawVariable{Name: v.Name, Value: v.Value}
		}),
	}, nil
}
