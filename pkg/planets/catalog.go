package planets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/planets/pkg/errors"
)

// CatalogFile is the on-disk shape of a seed catalog.
//
//	planets:
//	  - name: Mercury
//	    radius: 2439.7
//	    distanceToSun: 57.9
type CatalogFile struct {
	Planets []Planet `json:"planets" yaml:"planets"`
}

// LoadCatalog reads a YAML or JSON seed catalog from path. The format is
// chosen by file extension; anything other than .json is read as YAML.
func LoadCatalog(path string) ([]Planet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, errors.NewConfigError("catalog", "cannot read "+path, err)
	}
	return DecodeCatalog(data, formatOf(path), filepath.Base(path))
}

// DecodeCatalog parses and validates catalog data. Every record must pass
// Validate and normalized names must be unique.
func DecodeCatalog(data []byte, format, name string) ([]Planet, error) {
	var file CatalogFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, errors.WrapParse("json", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.WrapParse("yaml", name, err)
		}
	}

	seen := make(map[string]struct{}, len(file.Planets))
	out := make([]Planet, 0, len(file.Planets))
	for _, p := range file.Planets {
		if p.Name == "" {
			return nil, errors.NewValidationError("name", p.Name, "planet name must not be empty")
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		p = p.Normalized()
		if _, dup := seen[p.Name]; dup {
			return nil, errors.NewAlreadyExistsError("planet", p.Name)
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// EncodeCatalog renders planets in the catalog file format.
func EncodeCatalog(ps []Planet, format string) ([]byte, error) {
	file := CatalogFile{Planets: ps}
	if format == "json" {
		return json.MarshalIndent(file, "", "  ")
	}
	return yaml.MarshalWithOptions(file, yaml.Indent(2), yaml.IndentSequence(true))
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
