package sla

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyFile is the on-disk representation of an SLA policy override.
type PolicyFile struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Params     Params   `yaml:"params"`
	Holidays   []string `yaml:"extraHolidays,omitempty"`
}

// LoadPolicyFile parses a policy YAML file. Thresholds omitted from the
// file keep their defaults.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	pf := &PolicyFile{Params: DefaultParams()}
	if err := yaml.Unmarshal(data, pf); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if err := pf.Params.Validate(); err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}

	return pf, nil
}

// HolidayDates parses the extra holiday entries into dates.
func (f *PolicyFile) HolidayDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(f.Holidays))
	for _, raw := range f.Holidays {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", raw, err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}
