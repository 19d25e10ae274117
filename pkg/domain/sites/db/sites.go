package db

import (
	"context"

	"github.com/noresmhub/ctsm-api/pkg/domain"
)

type Interface interface {
	// Link records that caseId is the case built for the named site,
	// replacing any earlier link of that site.
	Link(ctx context.Context, siteName string, caseId string) error

	// GetLink retrieves the link of the named site.
	//
	// Returns ErrMissing when the site has no case yet.
	GetLink(ctx context.Context, siteName string) (domain.SiteCase, error)

	// GetAll retrieves every site-case link.
	GetAll(ctx context.Context) ([]domain.SiteCase, error)

	// Unlink drops every link pointing at caseId.
	// Used when the case is removed.
	Unlink(ctx context.Context, caseId string) error
}
