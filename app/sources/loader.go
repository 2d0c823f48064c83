package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the sources file at path. When the file does not exist the
// fallback URL becomes the single source, so a sources file is never
// required. The upstream feed has historically lived at several URLs at
// once, which is why more than one source is supported at all.
func Load(path, fallbackURL string) ([]Source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []Source{{Name: "default", URL: fallbackURL}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}

	for i, src := range file.Sources {
		if src.URL == "" {
			return nil, fmt.Errorf("source at index %d has no URL", i)
		}
		if src.Name == "" {
			file.Sources[i].Name = fmt.Sprintf("source-%d", i+1)
		}
	}

	return file.Sources, nil
}
