package sla

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const schemaPath = "../../schemas/policy_v1.json"

func writePolicy(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}
	return path
}

func TestValidateFileValid(t *testing.T) {
	validator, err := NewValidator(schemaPath)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	path := writePolicy(t, `
apiVersion: v1
kind: SLAPolicy
params:
  warehouseSLA: 1
  fastTransitSLA: 2
  defaultTransitSLA: 4
  extraFastCities:
    - Bucaramanga
extraHolidays:
  - "2028-01-03"
`)

	if errs := validator.ValidateFile(path); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateFileInvalid(t *testing.T) {
	validator, err := NewValidator(schemaPath)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		content string
		pathHas string
	}{
		{
			name: "wrong kind",
			content: `
apiVersion: v1
kind: Policy
`,
			pathHas: "kind",
		},
		{
			name: "unknown field",
			content: `
apiVersion: v1
kind: SLAPolicy
slaDays: 3
`,
			pathHas: "(root)",
		},
		{
			name: "bad holiday format",
			content: `
apiVersion: v1
kind: SLAPolicy
extraHolidays:
  - "03/01/2028"
`,
			pathHas: "extraHolidays",
		},
		{
			name: "fast above default",
			content: `
apiVersion: v1
kind: SLAPolicy
params:
  fastTransitSLA: 9
  defaultTransitSLA: 5
`,
			pathHas: "params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePolicy(t, tt.content)
			errs := validator.ValidateFile(path)
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}

			found := false
			for _, e := range errs {
				if strings.Contains(e.Path, tt.pathHas) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error at path containing %q, got %v", tt.pathHas, errs)
			}
		})
	}
}

func TestLoadPolicyFileDefaults(t *testing.T) {
	path := writePolicy(t, `
apiVersion: v1
kind: SLAPolicy
params:
  defaultTransitSLA: 6
`)

	pf, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatalf("failed to load policy: %v", err)
	}

	// Omitted thresholds keep their defaults
	if pf.Params.WarehouseSLA != 1 {
		t.Errorf("expected warehouseSLA=1, got %d", pf.Params.WarehouseSLA)
	}
	if pf.Params.FastTransitSLA != 3 {
		t.Errorf("expected fastTransitSLA=3, got %d", pf.Params.FastTransitSLA)
	}
	if pf.Params.DefaultTransitSLA != 6 {
		t.Errorf("expected defaultTransitSLA=6, got %d", pf.Params.DefaultTransitSLA)
	}
}

func TestHolidayDates(t *testing.T) {
	pf := &PolicyFile{Holidays: []string{"2028-01-03", "2028-07-20"}}

	dates, err := pf.HolidayDates()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}

	pf.Holidays = append(pf.Holidays, "not-a-date")
	if _, err := pf.HolidayDates(); err == nil {
		t.Error("expected error for malformed date")
	}
}
