package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesFile is the YAML override structure:
//
// sources:
//   en_GB:
//     - name: BBC News
//       url: https://www.bbc.co.uk/news
//     - name: BBC UK feed
//       url: https://feeds.bbci.co.uk/news/uk/rss.xml
//       kind: rss
type SourcesFile struct {
	Sources map[string][]Source `yaml:"sources"`
}

// LoadSourcesFile reads per-locale source overrides from a YAML file.
func LoadSourcesFile(path string) (map[string][]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	for code, list := range cfg.Sources {
		for i, s := range list {
			if s.Name == "" || s.URL == "" {
				return nil, fmt.Errorf("sources file %s: entry %d for %s needs name and url", path, i, code)
			}
		}
	}
	return cfg.Sources, nil
}
