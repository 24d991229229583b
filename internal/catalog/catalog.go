// Package catalog describes the starter files each supported framework
// choice needs. The default catalog is embedded; deployments can override it
// with a YAML file of the same shape.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// StarterFile is one configuration file a framework choice requires.
type StarterFile struct {
	Path    string `yaml:"path"`
	Purpose string `yaml:"purpose"`
}

// Framework lists the starter files for one framework.
type Framework struct {
	Files []StarterFile `yaml:"files"`
}

// Catalog maps framework choices per project component.
type Catalog struct {
	Frontend   map[string]Framework `yaml:"frontend"`
	Backend    map[string]Framework `yaml:"backend"`
	Database   map[string]Framework `yaml:"database"`
	AI         map[string]Framework `yaml:"ai"`
	Deployment map[string]Framework `yaml:"deployment"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog from path, falling back to the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// FrontendFiles returns the starter files for a frontend framework choice.
// Unknown frameworks get no starter files; the generated task files stand
// alone.
func (c *Catalog) FrontendFiles(framework string) []StarterFile {
	return c.Frontend[framework].Files
}

// BackendFiles returns the starter files for a backend framework choice.
func (c *Catalog) BackendFiles(framework string) []StarterFile {
	return c.Backend[framework].Files
}

// DatabaseFiles returns the starter files for a database choice.
func (c *Catalog) DatabaseFiles(database string) []StarterFile {
	return c.Database[database].Files
}

// AIFiles returns the starter files for an AI capability.
func (c *Catalog) AIFiles(kind string) []StarterFile {
	return c.AI[kind].Files
}

// DeploymentFiles returns the starter files for a deployment target.
func (c *Catalog) DeploymentFiles(target string) []StarterFile {
	return c.Deployment[target].Files
}

// SupportedFrontends returns the known frontend framework names, sorted.
func (c *Catalog) SupportedFrontends() []string {
	return sortedKeys(c.Frontend)
}

// SupportedBackends returns the known backend framework names, sorted.
func (c *Catalog) SupportedBackends() []string {
	return sortedKeys(c.Backend)
}

// SupportsFrontend reports whether the frontend framework is known.
func (c *Catalog) SupportsFrontend(framework string) bool {
	_, ok := c.Frontend[framework]
	return ok
}

// SupportsBackend reports whether the backend framework is known.
func (c *Catalog) SupportsBackend(framework string) bool {
	_, ok := c.Backend[framework]
	return ok
}

func sortedKeys(m map[string]Framework) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
