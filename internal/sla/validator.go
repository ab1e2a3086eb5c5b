package sla

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a validation error for a specific file
type ValidationError struct {
	File    string
	Path    string
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Path != "" {
		return e.File + ": " + e.Path + ": " + e.Message
	}
	return e.File + ": " + e.Message
}

// Validator handles policy file validation
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new validator with the given schema file
func NewValidator(schemaPath string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateFile validates a single policy YAML file against the JSON
// schema plus the extra rules the schema cannot express.
func (v *Validator) ValidateFile(path string) []ValidationError {
	var errors []ValidationError

	data, err := os.ReadFile(path)
	if err != nil {
		errors = append(errors, ValidationError{
			File:    path,
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
		return errors
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		errors = append(errors, ValidationError{
			File:    path,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		})
		return errors
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			errors = append(errors, extractSchemaErrors(path, validationErr)...)
		} else {
			errors = append(errors, ValidationError{
				File:    path,
				Message: err.Error(),
			})
		}
	}

	var pf PolicyFile
	pf.Params = DefaultParams()
	if err := yaml.Unmarshal(data, &pf); err == nil {
		errors = append(errors, validateExtraRules(path, &pf)...)
	}

	return errors
}

// extractSchemaErrors converts JSON schema validation errors to ValidationErrors
func extractSchemaErrors(file string, err *jsonschema.ValidationError) []ValidationError {
	var errors []ValidationError

	path := strings.Join(err.InstanceLocation, ".")
	if path == "" {
		path = "(root)"
	}

	errors = append(errors, ValidationError{
		File:    file,
		Path:    path,
		Message: err.Error(),
	})

	for _, cause := range err.Causes {
		errors = append(errors, extractSchemaErrors(file, cause)...)
	}

	return errors
}

// validateExtraRules applies validation beyond what the JSON schema covers
func validateExtraRules(file string, pf *PolicyFile) []ValidationError {
	var errors []ValidationError

	if err := pf.Params.Validate(); err != nil {
		errors = append(errors, ValidationError{
			File:    file,
			Path:    "params",
			Message: err.Error(),
		})
	}

	for i, raw := range pf.Holidays {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			errors = append(errors, ValidationError{
				File:    file,
				Path:    fmt.Sprintf("extraHolidays[%d]", i),
				Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw),
			})
		}
	}

	for i, city := range pf.Params.ExtraFastCities {
		if strings.TrimSpace(city) == "" {
			errors = append(errors, ValidationError{
				File:    file,
				Path:    fmt.Sprintf("params.extraFastCities[%d]", i),
				Message: "city name must not be blank",
			})
		}
	}

	return errors
}
