// Package report reduces evaluated orders into aggregate tables and
// headline indicators.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/tecuops/dispatch-sla/internal/eval"
)

// UnspecifiedGroup is the bucket for delivered orders missing the
// grouping field, so that group totals always sum to the delivered count.
const UnspecifiedGroup = "(unspecified)"

// GroupRow is one row of an aggregate table.
type GroupRow struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"` // display form, set for month views

	Total        int `json:"total"`
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"nonCompliant"`

	CompliancePct float64 `json:"compliancePct"`

	// AvgTransitDeviation averages transit deviation over rows where it is
	// present (including non-positive values); 0 when no row has one.
	AvgTransitDeviation float64 `json:"avgTransitDeviation"`

	// AvgDispatchDeviation is the same reduction over dispatch deviation.
	AvgDispatchDeviation float64 `json:"avgDispatchDeviation"`
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Delivered returns the subset of orders whose status marks them as
// delivered. Only these participate in aggregates and indicators.
func Delivered(orders []eval.EvaluatedOrder) []eval.EvaluatedOrder {
	var out []eval.EvaluatedOrder
	for _, o := range orders {
		if o.Delivered() {
			out = append(out, o)
		}
	}
	return out
}

// NonCompliant returns delivered orders that missed the end-to-end SLA.
func NonCompliant(orders []eval.EvaluatedOrder) []eval.EvaluatedOrder {
	var out []eval.EvaluatedOrder
	for _, o := range Delivered(orders) {
		if o.Compliance == eval.StatusNonCompliant {
			out = append(out, o)
		}
	}
	return out
}

type groupAccum struct {
	label        string
	total        int
	compliant    int
	transitSum   int
	transitN     int
	dispatchSum  int
	dispatchN    int
}

func (g *groupAccum) add(o eval.EvaluatedOrder) {
	g.total++
	if o.Compliance == eval.StatusCompliant {
		g.compliant++
	}
	if o.TransitDeviation != nil {
		g.transitSum += *o.TransitDeviation
		g.transitN++
	}
	if o.DispatchDeviation != nil {
		g.dispatchSum += *o.DispatchDeviation
		g.dispatchN++
	}
}

func (g *groupAccum) row(key string) GroupRow {
	row := GroupRow{
		Key:          key,
		Label:        g.label,
		Total:        g.total,
		Compliant:    g.compliant,
		NonCompliant: g.total - g.compliant,
	}
	if g.total > 0 {
		row.CompliancePct = round1(float64(g.compliant) / float64(g.total) * 100)
	}
	if g.transitN > 0 {
		row.AvgTransitDeviation = round2(float64(g.transitSum) / float64(g.transitN))
	}
	if g.dispatchN > 0 {
		row.AvgDispatchDeviation = round2(float64(g.dispatchSum) / float64(g.dispatchN))
	}
	return row
}

func aggregate(orders []eval.EvaluatedOrder, keyFn func(eval.EvaluatedOrder) (key, label string, ok bool)) []GroupRow {
	groups := make(map[string]*groupAccum)
	for _, o := range Delivered(orders) {
		key, label, ok := keyFn(o)
		if !ok {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &groupAccum{label: label}
			groups[key] = g
		}
		g.add(o)
	}

	if len(groups) == 0 {
		return nil
	}

	rows := make([]GroupRow, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, g.row(key))
	}
	return rows
}

// ByCity aggregates delivered orders per destination city, largest groups
// first. Orders without a city land in the unspecified bucket. Returns
// nil when there are no delivered orders.
func ByCity(orders []eval.EvaluatedOrder) []GroupRow {
	rows := aggregate(orders, func(o eval.EvaluatedOrder) (string, string, bool) {
		key := strings.TrimSpace(o.City)
		if key == "" {
			key = UnspecifiedGroup
		}
		return key, "", true
	})
	sortByTotalDesc(rows)
	return rows
}

// ByCarrier aggregates delivered orders per carrier, largest groups
// first.
func ByCarrier(orders []eval.EvaluatedOrder) []GroupRow {
	rows := aggregate(orders, func(o eval.EvaluatedOrder) (string, string, bool) {
		key := strings.TrimSpace(o.Carrier)
		if key == "" {
			key = UnspecifiedGroup
		}
		return key, "", true
	})
	sortByTotalDesc(rows)
	return rows
}

// ByMonth aggregates delivered orders per purchase month in chronological
// order. Orders without a purchase date have no month and are left out.
func ByMonth(orders []eval.EvaluatedOrder) []GroupRow {
	rows := aggregate(orders, func(o eval.EvaluatedOrder) (string, string, bool) {
		if o.MonthKey == "" {
			return "", "", false
		}
		return o.MonthKey, o.MonthLabel, true
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

func sortByTotalDesc(rows []GroupRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})
}
