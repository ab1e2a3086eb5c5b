package report

import (
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// Filter restricts an evaluated dataset. Empty slices mean "no
// restriction" for that dimension.
type Filter struct {
	Months   []string `json:"months,omitempty"`   // month keys, YYYY-MM
	Carriers []string `json:"carriers,omitempty"` // matched case/accent-insensitively
	Cities   []string `json:"cities,omitempty"`

	// MinTransitDeviation keeps only orders whose transit deviation is
	// present and at least this value.
	MinTransitDeviation *int `json:"minTransitDeviation,omitempty"`
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return len(f.Months) == 0 && len(f.Carriers) == 0 && len(f.Cities) == 0 &&
		f.MinTransitDeviation == nil
}

// Apply returns the orders matching the filter, preserving input order.
func (f Filter) Apply(orders []eval.EvaluatedOrder) []eval.EvaluatedOrder {
	if f.IsZero() {
		return orders
	}

	months := toSet(f.Months, func(s string) string { return s })
	carriers := toSet(f.Carriers, sla.Normalize)
	cities := toSet(f.Cities, sla.Normalize)

	var out []eval.EvaluatedOrder
	for _, o := range orders {
		if len(months) > 0 {
			if _, ok := months[o.MonthKey]; !ok {
				continue
			}
		}
		if len(carriers) > 0 {
			if _, ok := carriers[sla.Normalize(o.Carrier)]; !ok {
				continue
			}
		}
		if len(cities) > 0 {
			if _, ok := cities[sla.Normalize(o.City)]; !ok {
				continue
			}
		}
		if f.MinTransitDeviation != nil {
			if o.TransitDeviation == nil || *o.TransitDeviation < *f.MinTransitDeviation {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[norm(v)] = struct{}{}
	}
	return set
}
