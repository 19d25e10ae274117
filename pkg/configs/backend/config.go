package backend

type BackendConfig struct {
	port   int32
	server *CtsmServerConfig
}

func (c *BackendConfig) Port() int32 {
	return c.port
}

func (c *BackendConfig) Server() *CtsmServerConfig {
	return c.server
}

// Configuration for the CTSM API server.
//
// to get `CtsmServerConfig` instance, use `CtsmServerConfigMarshall.TrySeal()` .
type CtsmServerConfig struct {
	database      string
	model         *ModelConfig
	storage       *StorageConfig
	variablesFile string
	sitesFile     string
}

// Connection string for database.
func (c *CtsmServerConfig) Database() string {
	return c.database
}

// Configuration for the model checkout.
func (c *CtsmServerConfig) Model() *ModelConfig {
	return c.model
}

// Configuration for on-disk roots.
func (c *CtsmServerConfig) Storage() *StorageConfig {
	return c.storage
}

// Path of the variable registry document. Empty means no variables
// are allowed.
func (c *CtsmServerConfig) VariablesFile() string {
	return c.variablesFile
}

// Path of the site catalog document. Empty means no sites are offered.
func (c *CtsmServerConfig) SitesFile() string {
	return c.sitesFile
}

type ModelConfig struct {
	root    string
	tag     string
	machine string
}

// Root of the CTSM checkout.
func (m *ModelConfig) Root() string {
	return m.root
}

// Version tag the checkout is pinned to. Part of every case id.
func (m *ModelConfig) Tag() string {
	return m.tag
}

// CIME machine name. default = "container"
func (m *ModelConfig) Machine() string {
	return m.machine
}

type StorageConfig struct {
	casesRoot    string
	dataRoot     string
	archivesRoot string
}

// Directory holding one subdirectory per case.
func (s *StorageConfig) CasesRoot() string {
	return s.casesRoot
}

// Directory holding one extracted-data subdirectory per case id.
func (s *StorageConfig) DataRoot() string {
	return s.dataRoot
}

// Directory holding cached output archives.
func (s *StorageConfig) ArchivesRoot() string {
	return s.archivesRoot
}
