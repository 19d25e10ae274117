package backend

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/backend.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type BackendConfigMarshall struct {
	Port   int32                     `yaml:"port"`
	Server *CtsmServerConfigMarshall `yaml:"server"`
}

var _ Marshalled[*BackendConfig] = &BackendConfigMarshall{}

func (b *BackendConfigMarshall) trySeal(path string) *BackendConfig {
	return &BackendConfig{
		port:   required(b.Port, path+".port"),
		server: nonnil(b.Server, path+".server").trySeal(path + ".server"),
	}
}

// Configuration of the CTSM API server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `CtsmServerConfig`.
// You can get `CtsmServerConfig` instance with `CtsmServerConfigMarshall.TrySeal()`
type CtsmServerConfigMarshall struct {
	Database      string                 `yaml:"database"`
	Model         *ModelConfigMarshall   `yaml:"model"`
	Storage       *StorageConfigMarshall `yaml:"storage"`
	VariablesFile string                 `yaml:"variablesFile,omitempty"`
	SitesFile     string                 `yaml:"sitesFile,omitempty"`
}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (cm *CtsmServerConfigMarshall) TrySeal() *CtsmServerConfig {
	return cm.trySeal("(root)")
}

func (cm *CtsmServerConfigMarshall) trySeal(path string) *CtsmServerConfig {
	return &CtsmServerConfig{
		database:      required(cm.Database, path+".database"),
		model:         nonnil(cm.Model, path+".model").trySeal(path + ".model"),
		storage:       nonnil(cm.Storage, path+".storage").trySeal(path + ".storage"),
		variablesFile: cm.VariablesFile,
		sitesFile:     cm.SitesFile,
	}
}

type ModelConfigMarshall struct {
	Root    string `yaml:"root"`
	Tag     string `yaml:"tag"`
	Machine string `yaml:"machine,omitempty"`
}

func (mm *ModelConfigMarshall) trySeal(path string) *ModelConfig {
	machine := mm.Machine
	if machine == "" {
		machine = "container"
	}
	return &ModelConfig{
		root:    required(mm.Root, path+".root"),
		tag:     required(mm.Tag, path+".tag"),
		machine: machine,
	}
}

type StorageConfigMarshall struct {
	CasesRoot    string `yaml:"casesRoot"`
	DataRoot     string `yaml:"dataRoot"`
	ArchivesRoot string `yaml:"archivesRoot"`
}

func (sm *StorageConfigMarshall) trySeal(path string) *StorageConfig {
	return &StorageConfig{
		casesRoot:    required(sm.CasesRoot, path+".casesRoot"),
		dataRoot:     required(sm.DataRoot, path+".dataRoot"),
		archivesRoot: required(sm.ArchivesRoot, path+".archivesRoot"),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
