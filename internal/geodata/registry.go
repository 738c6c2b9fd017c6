package geodata

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistryYAML []byte

// registryFile mirrors the YAML document; durations arrive as strings
type registryFile struct {
	Categories map[string]struct {
		Dir   string   `yaml:"dir"`
		Files []string `yaml:"files"`
	} `yaml:"categories"`
	Priorities map[string]int    `yaml:"priorities"`
	Timeouts   map[string]string `yaml:"timeouts"`
	Aliases    map[string]string `yaml:"aliases"`
}

// Category groups dataset files under a directory on the static host
type Category struct {
	Name  string
	Dir   string
	Files []string
}

// Registry is the static table of known geographic datasets: category
// membership, load priority, per-file timeout overrides and name aliases
type Registry struct {
	categories map[string]Category
	priorities map[string]int
	timeouts   map[string]time.Duration
	aliases    map[string]string
}

// ParseRegistry builds a Registry from YAML bytes
func ParseRegistry(raw []byte) (*Registry, error) {
	var doc registryFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing geodata registry: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("geodata registry has no categories")
	}

	reg := &Registry{
		categories: make(map[string]Category, len(doc.Categories)),
		priorities: doc.Priorities,
		timeouts:   make(map[string]time.Duration, len(doc.Timeouts)),
		aliases:    doc.Aliases,
	}
	if reg.priorities == nil {
		reg.priorities = map[string]int{}
	}
	if reg.aliases == nil {
		reg.aliases = map[string]string{}
	}

	for name, cat := range doc.Categories {
		reg.categories[name] = Category{Name: name, Dir: cat.Dir, Files: cat.Files}
	}

	for name, raw := range doc.Timeouts {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("geodata registry: bad timeout for %q: %w", name, err)
		}
		reg.timeouts[name] = d
	}

	return reg, nil
}

// DefaultRegistry returns the embedded deployment registry
func DefaultRegistry() (*Registry, error) {
	return ParseRegistry(defaultRegistryYAML)
}

// LoadRegistryFile reads a registry override from disk
func LoadRegistryFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geodata registry %s: %w", path, err)
	}
	return ParseRegistry(raw)
}

// Canonical resolves an alias to its canonical dataset name
func (r *Registry) Canonical(name string) string {
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// Resolve maps a dataset name to its path on the static host
func (r *Registry) Resolve(name string) (string, error) {
	canonical := r.Canonical(name)
	for _, cat := range r.categories {
		for _, f := range cat.Files {
			if f == canonical {
				return cat.Dir + "/" + canonical + ".geojson", nil
			}
		}
	}
	return "", fmt.Errorf("geojson %q: not present in any registered category", name)
}

// FilesFor unions the file lists of the named categories, preserving each
// category's declared file order and skipping duplicates and unknown names
func (r *Registry) FilesFor(categories ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, catName := range categories {
		cat, ok := r.categories[catName]
		if !ok {
			continue
		}
		for _, f := range cat.Files {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// AllFiles lists every registered dataset, categories in sorted order
func (r *Registry) AllFiles() []string {
	catNames := make([]string, 0, len(r.categories))
	for name := range r.categories {
		catNames = append(catNames, name)
	}
	sort.Strings(catNames)
	return r.FilesFor(catNames...)
}

// Categories lists registered category names, sorted
func (r *Registry) Categories() []string {
	out := make([]string, 0, len(r.categories))
	for name := range r.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SortByPriority orders names by the priority table, lower first. Names
// without a priority sort last and keep their relative order.
func (r *Registry) SortByPriority(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		return r.priorityOf(out[i]) < r.priorityOf(out[j])
	})
	return out
}

func (r *Registry) priorityOf(name string) int {
	if p, ok := r.priorities[r.Canonical(name)]; ok {
		return p
	}
	return int(^uint(0) >> 1) // unlisted files go last
}

// TimeoutFor returns the per-file timeout override, or fallback
func (r *Registry) TimeoutFor(name string, fallback time.Duration) time.Duration {
	if d, ok := r.timeouts[r.Canonical(name)]; ok {
		return d
	}
	return fallback
}
