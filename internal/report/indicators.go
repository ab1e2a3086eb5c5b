package report

import (
	"github.com/tecuops/dispatch-sla/internal/eval"
)

// Summary holds the headline indicators over the delivered subset of a
// dataset. Deviation statistics cover only strictly positive deviations.
type Summary struct {
	Total        int `json:"total"`
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"nonCompliant"`
	Pending      int `json:"pending"`

	CompliancePct float64 `json:"compliancePct"`

	DispatchDeviated int `json:"dispatchDeviated"`
	TransitDeviated  int `json:"transitDeviated"`

	AvgDispatchDeviation float64 `json:"avgDispatchDeviation"`
	AvgTransitDeviation  float64 `json:"avgTransitDeviation"`

	MaxDispatchDeviation int `json:"maxDispatchDeviation"`
	MaxTransitDeviation  int `json:"maxTransitDeviation"`
}

// Summarize reduces the delivered subset of the orders into a Summary.
// Returns nil when no delivered orders exist: "no data" is a distinct
// state from zeroed counters, and callers must render it as such.
func Summarize(orders []eval.EvaluatedOrder) *Summary {
	delivered := Delivered(orders)
	if len(delivered) == 0 {
		return nil
	}

	s := &Summary{Total: len(delivered)}

	dispatchSum, transitSum := 0, 0
	for _, o := range delivered {
		switch o.Compliance {
		case eval.StatusCompliant:
			s.Compliant++
		case eval.StatusNonCompliant:
			s.NonCompliant++
		case eval.StatusPending:
			s.Pending++
		}

		if o.DispatchDeviation != nil && *o.DispatchDeviation > 0 {
			s.DispatchDeviated++
			dispatchSum += *o.DispatchDeviation
			if *o.DispatchDeviation > s.MaxDispatchDeviation {
				s.MaxDispatchDeviation = *o.DispatchDeviation
			}
		}
		if o.TransitDeviation != nil && *o.TransitDeviation > 0 {
			s.TransitDeviated++
			transitSum += *o.TransitDeviation
			if *o.TransitDeviation > s.MaxTransitDeviation {
				s.MaxTransitDeviation = *o.TransitDeviation
			}
		}
	}

	s.CompliancePct = round1(float64(s.Compliant) / float64(s.Total) * 100)
	if s.DispatchDeviated > 0 {
		s.AvgDispatchDeviation = round1(float64(dispatchSum) / float64(s.DispatchDeviated))
	}
	if s.TransitDeviated > 0 {
		s.AvgTransitDeviation = round1(float64(transitSum) / float64(s.TransitDeviated))
	}

	return s
}
