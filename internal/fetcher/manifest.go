package fetcher

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Dataset names one remote input and where it lands in the cache.
type Dataset struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	// Dest is relative to the cache directory. Defaults to Name.
	Dest string `yaml:"dest,omitempty"`
	// Unzip extracts the download instead of storing the archive.
	Unzip bool `yaml:"unzip,omitempty"`
}

// Manifest lists the datasets a fetch should retrieve.
type Manifest struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadManifest reads a dataset manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read manifest %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse manifest %s", path)
	}

	if len(m.Datasets) == 0 {
		return nil, eris.Errorf("fetcher: manifest %s lists no datasets", path)
	}
	seen := make(map[string]bool, len(m.Datasets))
	for i := range m.Datasets {
		d := &m.Datasets[i]
		if d.Name == "" {
			return nil, eris.Errorf("fetcher: manifest %s: dataset %d has no name", path, i)
		}
		if d.URL == "" {
			return nil, eris.Errorf("fetcher: manifest %s: dataset %q has no url", path, d.Name)
		}
		if seen[d.Name] {
			return nil, eris.Errorf("fetcher: manifest %s: duplicate dataset %q", path, d.Name)
		}
		seen[d.Name] = true
		if d.Dest == "" {
			d.Dest = d.Name
		}
	}
	return &m, nil
}
