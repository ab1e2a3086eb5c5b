// Package sla holds the SLA parameters and the city-based transit policy.
package sla

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Params are the configurable SLA thresholds, in business days.
type Params struct {
	// WarehouseSLA is the allowance from purchase to dispatch.
	WarehouseSLA int `yaml:"warehouseSLA" json:"warehouseSLA"`

	// FastTransitSLA applies to destinations matching the fast-city list.
	FastTransitSLA int `yaml:"fastTransitSLA" json:"fastTransitSLA"`

	// DefaultTransitSLA applies to every other destination.
	DefaultTransitSLA int `yaml:"defaultTransitSLA" json:"defaultTransitSLA"`

	// ExtraFastCities extends the built-in fast-city list.
	ExtraFastCities []string `yaml:"extraFastCities,omitempty" json:"extraFastCities,omitempty"`
}

// DefaultParams returns the operation's standard thresholds: same-day
// dispatch, 3 days to the main metro areas, 5 days elsewhere.
func DefaultParams() Params {
	return Params{
		WarehouseSLA:      1,
		FastTransitSLA:    3,
		DefaultTransitSLA: 5,
	}
}

// Validate checks that the thresholds are usable.
func (p Params) Validate() error {
	if p.WarehouseSLA < 0 {
		return fmt.Errorf("warehouseSLA must be >= 0, got %d", p.WarehouseSLA)
	}
	if p.FastTransitSLA < 1 {
		return fmt.Errorf("fastTransitSLA must be >= 1, got %d", p.FastTransitSLA)
	}
	if p.DefaultTransitSLA < 1 {
		return fmt.Errorf("defaultTransitSLA must be >= 1, got %d", p.DefaultTransitSLA)
	}
	if p.FastTransitSLA > p.DefaultTransitSLA {
		return fmt.Errorf("fastTransitSLA (%d) must not exceed defaultTransitSLA (%d)",
			p.FastTransitSLA, p.DefaultTransitSLA)
	}
	return nil
}

// fastTransitCities are normalized names of cities and regions served on
// the fast transit SLA: the Bogotá, Medellín and Cali metro areas.
var fastTransitCities = []string{
	"bogota", "cundinamarca", "soacha", "bosa", "fontibon",
	"medellin", "antioquia", "envigado", "bello", "itagui",
	"cali", "valle del cauca", "palmira", "yumbo",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and accent-strips a free-text value so that
// "Bogotá D.C." and "bogota dc" compare alike.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// TransitSLA returns the transit allowance for a destination city. An
// empty city gets the default. Matching is substring-based on purpose, so
// "Bogotá D.C." matches "bogota"; a city name that merely contains a
// fast-city token will also match.
func (p Params) TransitSLA(city string) int {
	if strings.TrimSpace(city) == "" {
		return p.DefaultTransitSLA
	}

	normalized := Normalize(city)
	for _, fast := range fastTransitCities {
		if strings.Contains(normalized, fast) {
			return p.FastTransitSLA
		}
	}
	for _, fast := range p.ExtraFastCities {
		if strings.Contains(normalized, Normalize(fast)) {
			return p.FastTransitSLA
		}
	}
	return p.DefaultTransitSLA
}

// TotalSLA is the end-to-end allowance for a destination: warehouse plus
// transit.
func (p Params) TotalSLA(city string) int {
	return p.WarehouseSLA + p.TransitSLA(city)
}
