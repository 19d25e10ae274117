package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/noresmhub/ctsm-api/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Registry holds the declarative catalog of variables a case may set.
type Registry struct {
	configs []domain.VariableConfig
	index   map[string]int
}

// New builds a Registry out of configs.
//
// Entries are kept in document order. Duplicated names and unknown
// categories or types are rejected.
func New(configs []domain.VariableConfig) (*Registry, error) {
	index := map[string]int{}
	for i, c := range configs {
		if c.Name == "" {
			return nil, fmt.Errorf("variable config #%d has no name", i)
		}
		if _, ok := index[c.Name]; ok {
			return nil, fmt.Errorf("variable '%s' is declared twice", c.Name)
		}
		if _, err := domain.AsVariableCategory(c.Category.String()); err != nil {
			return nil, fmt.Errorf("variable '%s': %w", c.Name, err)
		}
		if _, err := domain.AsVariableType(c.Type.String()); err != nil {
			return nil, fmt.Errorf("variable '%s': %w", c.Name, err)
		}
		index[c.Name] = i
	}
	return &Registry{configs: configs, index: index}, nil
}

// Find returns the config of the named variable.
func (r *Registry) Find(name string) (domain.VariableConfig, bool) {
	i, ok := r.index[name]
	if !ok {
		return domain.VariableConfig{}, false
	}
	return r.configs[i], true
}

// All returns every config, in document order.
// The returned slice is shared. Do not mutate it.
func (r *Registry) All() []domain.VariableConfig {
	return r.configs
}

func (r *Registry) Len() int {
	return len(r.configs)
}

// Load reads a registry document from path.
//
// A missing file is not an error: cases just accept no variables then.
func Load(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil)
		}
		return nil, err
	}
	configs := []domain.VariableConfig{}
	if err := yaml.Unmarshal(content, &configs); err != nil {
		return nil, fmt.Errorf("cannot parse variable registry %s: %w", path, err)
	}
	return New(configs)
}

var (
	cacheMux sync.Mutex
	cache    = map[string]*Registry{}
)

// Get is Load with a process-wide cache keyed by path.
//
// The registry document does not change while the server runs, so each
// path is read once.
func Get(path string) (*Registry, error) {
	cacheMux.Lock()
	defer cacheMux.Unlock()
	if r, ok := cache[path]; ok {
		return r, nil
	}
	r, err := Load(path)
	if err != nil {
		return nil, err
	}
	cache[path] = r
	return r, nil
}
