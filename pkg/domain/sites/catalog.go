// Package sites reads the measurement-site catalog and tracks which
// case is built for each site.
package sites

import (
	"fmt"
	"os"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Catalog is the read-only set of sites a deployment offers.
type Catalog struct {
	sites []domain.Site
	index map[string]int
}

func NewCatalog(sites []domain.Site) (*Catalog, error) {
	index := map[string]int{}
	for i, s := range sites {
		if s.Name == "" {
			return nil, fmt.Errorf("site #%d has no name", i)
		}
		if _, ok := index[s.Name]; ok {
			return nil, fmt.Errorf("site '%s' is declared twice", s.Name)
		}
		index[s.Name] = i
	}
	return &Catalog{sites: sites, index: index}, nil
}

func (c *Catalog) Find(name string) (domain.Site, bool) {
	i, ok := c.index[name]
	if !ok {
		return domain.Site{}, false
	}
	return c.sites[i], true
}

// All returns every site, in document order.
// The returned slice is shared. Do not mutate it.
func (c *Catalog) All() []domain.Site {
	return c.sites
}

func (c *Catalog) Len() int {
	return len(c.sites)
}

// LoadCatalog reads the site catalog document from path.
//
// A missing file yields an empty catalog.
func LoadCatalog(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(nil)
		}
		return nil, err
	}
	sites := []domain.Site{}
	if err := yaml.Unmarshal(content, &sites); err != nil {
		return nil, fmt.Errorf("cannot parse site catalog %s: %w", path, err)
	}
	return NewCatalog(sites)
}
