package boost

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Boosts []catalogFileEntry `yaml:"boosts"`
}

type catalogFileEntry struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Effect      string `yaml:"effect"`
	Value       int    `yaml:"value"`
}

// LoadCatalogFile reads a YAML boost catalog:
//
//	boosts:
//	  - code: DOUBLE_DOWN
//	    name: Double Down
//	    effect: multiplier
//	    value: 2
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boost catalog %s: %w", path, err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode boost catalog: %w", err)
	}
	if len(doc.Boosts) == 0 {
		return nil, fmt.Errorf("boost catalog is empty")
	}

	entries := make([]CatalogEntry, 0, len(doc.Boosts))
	for _, item := range doc.Boosts {
		entries = append(entries, CatalogEntry{
			Definition: Definition{
				Code:        item.Code,
				Name:        item.Name,
				Description: item.Description,
			},
			Effect: Effect{
				Kind:  EffectKind(NormalizeCode(item.Effect)),
				Value: item.Value,
			},
		})
	}
	return NewCatalog(entries)
}
