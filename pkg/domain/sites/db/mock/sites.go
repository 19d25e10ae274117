package mock

import (
	"context"
	"errors"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	dbmock "github.com/noresmhub/ctsm-api/pkg/domain/internal/db/mock"
	kdb "github.com/noresmhub/ctsm-api/pkg/domain/sites/db"
)

type SiteInterface struct {
	Impl struct {
		Link    func(ctx context.Context, siteName string, caseId string) error
		GetLink func(ctx context.Context, siteName string) (domain.SiteCase, error)
		GetAll  func(ctx context.Context) ([]domain.SiteCase, error)
		Unlink  func(ctx context.Context, caseId string) error
	}

	Calls struct {
		Link dbmock.CallLog[struct {
			SiteName string
			CaseId   string
		}]
		GetLink dbmock.CallLog[string]
		GetAll  dbmock.CallLog[struct{}]
		Unlink  dbmock.CallLog[string]
	}
}

func NewSiteInterface() *SiteInterface {
	return &SiteInterface{}
}

var _ kdb.Interface = &SiteInterface{}

func (m *SiteInterface) Link(ctx context.Context, siteName string, caseId string) error {
	m.Calls.Link = append(m.Calls.Link, struct {
		SiteName string
		CaseId   string
	}{SiteName: siteName, CaseId: caseId})
	if m.Impl.Link != nil {
		return m.Impl.Link(ctx, siteName, caseId)
	}
	panic(errors.New("it should not be called"))
}

func (m *SiteInterface) GetLink(ctx context.Context, siteName string) (domain.SiteCase, error) {
	m.Calls.GetLink = append(m.Calls.GetLink, siteName)
	if m.Impl.GetLink != nil {
		return m.Impl.GetLink(ctx, siteName)
	}
	panic(errors.New("it should not be called"))
}

func (m *SiteInterface) GetAll(ctx context.Context) ([]domain.SiteCase, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SiteInterface) Unlink(ctx context.Context, caseId string) error {
	m.Calls.Unlink = append(m.Calls.Unlink, caseId)
	if m.Impl.Unlink != nil {
		return m.Impl.Unlink(ctx, caseId)
	}
	panic(errors.New("it should not be called"))
}
