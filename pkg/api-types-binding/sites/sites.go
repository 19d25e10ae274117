package sites

import (
	"github.com/noresmhub/ctsm-api-types/sites"
	"github.com/noresmhub/ctsm-api/pkg/domain"
)

func ComposeSummary(s domain.Site) sites.Summary {
	return sites.Summary{
		Name:    s.Name,
		Compset: s.Compset,
		Res:     s.Res,
		Lat:     s.Lat,
		Lon:     s.Lon,
		DataUrl: s.DataUrl,
	}
}

func ComposeDetail(s domain.Site, caseId string) sites.Detail {
	return sites.Detail{
		Summary: ComposeSummary(s),
		CaseId:  caseId,
	}
}
