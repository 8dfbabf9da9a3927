package memory

import (
	"fmt"
	"os"

	"study-session-service/internal/domain"

	"gopkg.in/yaml.v3"
)

type setFile struct {
	Sets []domain.Set `yaml:"sets"`
}

// ReadSetFile loads sets from a YAML document with a top-level "sets" list.
// Cards missing an ID get one derived from their position.
func ReadSetFile(path string) (map[string]domain.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc setFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse set file %s: %w", path, err)
	}

	sets := make(map[string]domain.Set, len(doc.Sets))
	for _, set := range doc.Sets {
		if set.ID == "" {
			return nil, fmt.Errorf("set file %s: set %q has no id", path, set.Title)
		}
		if _, dup := sets[set.ID]; dup {
			return nil, fmt.Errorf("set file %s: duplicate set id %q", path, set.ID)
		}
		for i := range set.Cards {
			if set.Cards[i].ID == "" {
				set.Cards[i].ID = fmt.Sprintf("%s-%d", set.ID, i)
			}
		}
		sets[set.ID] = set
	}
	return sets, nil
}
