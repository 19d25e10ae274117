package domain

import "time"

// Site is one entry of the measurement-site catalog.
type Site struct {
	Name    string  `yaml:"name" json:"name"`
	Compset string  `yaml:"compset" json:"compset"`
	Res     string  `yaml:"res" json:"res"`
	Lat     float64 `yaml:"lat" json:"lat"`
	Lon     float64 `yaml:"lon" json:"lon"`
	DataUrl string  `yaml:"data_url" json:"data_url"`

	// variables forced for cases created from this site.
	Variables []map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"`
}

func (s *Site) Equal(o *Site) bool {
	if (s == nil) || (o == nil) {
		return (s == nil) && (o == nil)
	}
	return s.Name == o.Name &&
		s.Compset == o.Compset &&
		s.Res == o.Res &&
		s.Lat == o.Lat &&
		s.Lon == o.Lon &&
		s.DataUrl == o.DataUrl
}

// SiteCase links a catalog site to a case built for it.
type SiteCase struct {
	Name      string
	CaseId    string
	CreatedAt time.Time
}

func (sc *SiteCase) Equal(o *SiteCase) bool {
	if (sc == nil) || (o == nil) {
		return (sc == nil) && (o == nil)
	}
	return sc.Name == o.Name &&
		sc.CaseId == o.CaseId &&
		sc.CreatedAt.Equal(o.CreatedAt)
}
