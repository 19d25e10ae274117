package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	apicases "github.com/noresmhub/ctsm-api-types/cases"
	apisites "github.com/noresmhub/ctsm-api-types/sites"
	bindcases "github.com/noresmhub/ctsm-api/pkg/api-types-binding/cases"
	binderr "github.com/noresmhub/ctsm-api/pkg/api-types-binding/errors"
	bindsites "github.com/noresmhub/ctsm-api/pkg/api-types-binding/sites"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases"
	"github.com/noresmhub/ctsm-api/pkg/domain/cases/validate"
	domerr "github.com/noresmhub/ctsm-api/pkg/domain/errors"
	"github.com/noresmhub/ctsm-api/pkg/domain/sites"
	sitedb "github.com/noresmhub/ctsm-api/pkg/domain/sites/db"
)

// GetSitesHandler lists the site catalog, each entry carrying the id of
// the case built for it, if any.
func GetSitesHandler(catalog *sites.Catalog, links sitedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		linked, err := links.GetAll(ctx)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		caseOf := map[string]string{}
		for _, l := range linked {
			caseOf[l.Name] = l.CaseId
		}

		resp := make([]apisites.Detail, 0, catalog.Len())
		for _, s := range catalog.All() {
			resp = append(resp, bindsites.ComposeDetail(s, caseOf[s.Name]))
		}
		return c.JSON(200, resp)
	}
}

// GetSiteCasesHandler lists the cases built for a catalog site.
//
// A site holds at most one link, so the list has zero or one entry.
func GetSiteCasesHandler(
	service *cases.Service,
	catalog *sites.Catalog,
	links sitedb.Interface,
	siteNameParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		site, ok := catalog.Find(c.Param(siteNameParam))
		if !ok {
			return binderr.NotFound()
		}

		link, err := links.GetLink(ctx, site.Name)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return c.JSON(200, []apicases.Detail{})
			}
			return binderr.InternalServerError(err)
		}

		linked, err := service.Get(ctx, link.CaseId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				// the case is removed but the link outlived it.
				return c.JSON(200, []apicases.Detail{})
			}
			return binderr.InternalServerError(err)
		}
		return c.JSON(200, []apicases.Detail{bindcases.ComposeDetail(linked)})
	}
}

// PostSiteCaseHandler creates a case for a catalog site.
//
// Compset, resolution and data URL come from the catalog entry. The
// site's forced variables win over variables in the request body.
func PostSiteCaseHandler(
	service *cases.Service,
	catalog *sites.Catalog,
	links sitedb.Interface,
	siteNameParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		if strings.ToLower(req.Header.Get("content-type")) != "application/json" {
			return binderr.BadRequest(
				"unexpected content type. it shoule be application/json", nil,
			)
		}

		site, ok := catalog.Find(c.Param(siteNameParam))
		if !ok {
			return binderr.NotFound()
		}

		spec := new(apisites.CaseSpec)
		if err := json.NewDecoder(req.Body).Decode(spec); err != nil {
			return binderr.BadRequest(
				"can not understand the requested json", err,
			)
		}

		driver := domain.DriverNuopc
		if spec.Driver != "" {
			d, err := domain.AsCTSMDriver(spec.Driver)
			if err != nil {
				return binderr.BadRequest(err.Error(), err)
			}
			driver = d
		}

		created, err := service.CreateOrReuse(ctx, cases.Definition{
			Name:      site.Name,
			Compset:   site.Compset,
			Res:       site.Res,
			Driver:    driver,
			DataUrl:   site.DataUrl,
			Variables: mergeSiteVariables(site, spec.Variables),
		})
		if err != nil {
			verr := new(validate.Error)
			if errors.As(err, &verr) {
				return binderr.BadRequest(verr.Error(), verr)
			}
			return binderr.InternalServerError(err)
		}

		if err := links.Link(ctx, site.Name, created.Id); err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(200, bindcases.ComposeDetail(created))
	}
}

// mergeSiteVariables overlays the site's forced variables onto the
// requested ones. Requested values of a forced variable are discarded.
func mergeSiteVariables(site domain.Site, requested []apicases.Variable) []validate.RawVariable {
	merged := []validate.RawVariable{}
	forced := map[string]bool{}
	for _, v := range site.Variables {
		name, _ := v["name"].(string)
		if name == "" {
			continue
		}
		forced[name] = true
		merged = append(merged, validate.RawVariable{Name: name, Value: v["value"]})
	}
	for _, v := range requested {
		if forced[v.Name] {
			continue
		}
		merged = append(merged, validate.RawVariable{Name: v.Name, Value: v.Value})
	}
	return merged
}
