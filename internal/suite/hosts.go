package suite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HostMeta is the concrete metadata a host key resolves to.
type HostMeta struct {
	ConfigName string `yaml:"config_name"`
	DomainName string `yaml:"domain_name"`
}

// HostTable maps abstract host keys to concrete host metadata.
type HostTable map[string]HostMeta

// LoadHostTable reads a host metadata table from a YAML file.
func LoadHostTable(path string) (HostTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load host table %s: %w", path, err)
	}
	table := HostTable{}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("load host table %s: %w", path, err)
	}
	return table, nil
}

// Prepare collects the host key of every selected case, in selection order.
//
// A selection entry with no registry record is a CaseNotFoundError and is
// reported before any partial host list is returned. A registered case
// without a host is silently omitted: not runnable, not an error.
func (s *Suite) Prepare() ([]string, error) {
	for _, id := range s.Selection {
		if !s.Registry.Has(id) {
			return nil, NewCaseNotFoundError(id)
		}
	}
	hosts := []string{}
	for _, id := range s.Selection {
		c, _ := s.Registry.Get(id)
		if c.Host == "" {
			continue
		}
		hosts = append(hosts, c.Host)
	}
	return hosts, nil
}

// UpdateHostnames annotates every case that names a host with the
// resolved hostname and host domain from the table.
//
// Cases whose host key has no table entry are reported as
// MissingHostErrors; the remaining cases are still annotated. Callers
// log the misses and exclude those cases from the run.
func (s *Suite) UpdateHostnames(table HostTable) []*MissingHostError {
	var missing []*MissingHostError
	for _, id := range s.Registry.IDs() {
		c, _ := s.Registry.Get(id)
		if c.Host == "" {
			continue
		}
		meta, ok := table[c.Host]
		if !ok {
			missing = append(missing, NewMissingHostError(id, c.Host))
			continue
		}
		c.Hostname = meta.ConfigName
		c.Hostdomain = meta.DomainName
	}
	return missing
}
