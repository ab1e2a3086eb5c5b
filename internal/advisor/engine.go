// Package advisor evaluates rule-based recommendations over a summarized
// dataset.
package advisor

import (
	"fmt"
	"math"

	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// Thresholds the rules fire against.
const (
	complianceTargetPct   = 80.0
	complianceStretchPct  = 90.0
	worstGroupMaxPct      = 70.0
	worstGroupMinTotal    = 3
	dispatchDelayAlarmPct = 20.0
	monthSwingPoints      = 10.0
)

// Engine produces findings from an evaluated dataset. Rules run
// independently: a rule whose inputs are unavailable is skipped, never an
// error.
type Engine struct {
	params sla.Params
}

// NewEngine creates a recommendation engine for the given SLA parameters.
func NewEngine(params sla.Params) *Engine {
	return &Engine{params: params}
}

// Evaluate runs every rule over the dataset and returns the findings in
// rule order. Returns nil when no delivered orders exist.
func (e *Engine) Evaluate(orders []eval.EvaluatedOrder) []Finding {
	delivered := report.Delivered(orders)
	if len(delivered) == 0 {
		return nil
	}

	summary := report.Summarize(orders)
	if summary == nil {
		return nil
	}

	var findings []Finding

	findings = append(findings, e.globalCompliance(summary))
	if f := e.worstCarrier(orders); f != nil {
		findings = append(findings, *f)
	}
	if f := e.worstCity(orders); f != nil {
		findings = append(findings, *f)
	}
	if f := e.dispatchDelays(summary); f != nil {
		findings = append(findings, *f)
	}
	if f := e.monthTrend(orders); f != nil {
		findings = append(findings, *f)
	}

	return findings
}

// globalCompliance always fires; severity depends on where the global
// rate sits against the 80/90 targets.
func (e *Engine) globalCompliance(s *report.Summary) Finding {
	pct := s.CompliancePct
	switch {
	case pct >= complianceStretchPct:
		return Finding{
			Title: "Excellent delivery performance",
			Body: fmt.Sprintf("%.1f%% end-to-end SLA compliance is above the %.0f%% target. Keep current service levels.",
				pct, complianceTargetPct),
			Severity: SeveritySuccess,
		}
	case pct >= complianceTargetPct:
		return Finding{
			Title: "Compliance within target",
			Body: fmt.Sprintf("%.1f%% end-to-end SLA compliance. There is room to reach %.0f%%+.",
				pct, complianceStretchPct),
			Severity: SeverityInfo,
		}
	default:
		return Finding{
			Title: "Compliance below target",
			Body: fmt.Sprintf("Only %.1f%% of delivered orders meet the end-to-end SLA. Minimum target: %.0f%%. Immediate action required.",
				pct, complianceTargetPct),
			Severity: SeverityWarning,
		}
	}
}

// worstCarrier flags the carrier with the lowest compliance rate, but
// only with enough volume to mean something.
func (e *Engine) worstCarrier(orders []eval.EvaluatedOrder) *Finding {
	rows := report.ByCarrier(orders)
	worst := worstByCompliance(rows)
	if worst == nil || worst.CompliancePct >= worstGroupMaxPct || worst.Total < worstGroupMinTotal {
		return nil
	}

	return &Finding{
		Title: fmt.Sprintf("Critical carrier: %s", worst.Key),
		Body: fmt.Sprintf("%s sits at %.1f%% compliance (%d misses out of %d orders). Average transit deviation: %.1f days. Review the contract and evaluate alternatives.",
			worst.Key, worst.CompliancePct, worst.NonCompliant, worst.Total, worst.AvgTransitDeviation),
		Severity: SeverityError,
	}
}

// worstCity flags the destination with the lowest compliance rate.
func (e *Engine) worstCity(orders []eval.EvaluatedOrder) *Finding {
	rows := report.ByCity(orders)
	worst := worstByCompliance(rows)
	if worst == nil || worst.CompliancePct >= worstGroupMaxPct || worst.Total < worstGroupMinTotal {
		return nil
	}

	return &Finding{
		Title: fmt.Sprintf("City with most misses: %s", worst.Key),
		Body: fmt.Sprintf("%s sits at %.1f%% compliance (%d of %d orders outside SLA). Verify carrier coverage and routes.",
			worst.Key, worst.CompliancePct, worst.NonCompliant, worst.Total),
		Severity: SeverityWarning,
	}
}

// dispatchDelays fires when too large a share of orders leaves the
// warehouse late.
func (e *Engine) dispatchDelays(s *report.Summary) *Finding {
	if s.Total == 0 {
		return nil
	}
	pct := math.Round(float64(s.DispatchDeviated)/float64(s.Total)*1000) / 10
	if pct <= dispatchDelayAlarmPct {
		return nil
	}

	return &Finding{
		Title: "High dispatch-stage delays",
		Body: fmt.Sprintf("%.1f%% of orders take more than %d business day(s) to dispatch. Average delay: %.1f days. Review picking, staging and cutoff times.",
			pct, e.params.WarehouseSLA, s.AvgDispatchDeviation),
		Severity: SeverityWarning,
	}
}

// monthTrend compares the last two months of data; swings larger than 10
// points fire, smaller deltas stay silent.
func (e *Engine) monthTrend(orders []eval.EvaluatedOrder) *Finding {
	rows := report.ByMonth(orders)
	if len(rows) < 2 {
		return nil
	}

	last := rows[len(rows)-1]
	prev := rows[len(rows)-2]
	delta := round1(last.CompliancePct - prev.CompliancePct)

	switch {
	case delta < -monthSwingPoints:
		return &Finding{
			Title: fmt.Sprintf("Compliance drop in %s", last.Label),
			Body: fmt.Sprintf("%s fell %.1f points against %s. Look at seasonality, carrier changes and stock availability.",
				last.Label, -delta, prev.Label),
			Severity: SeverityError,
		}
	case delta > monthSwingPoints:
		return &Finding{
			Title: fmt.Sprintf("Notable improvement in %s", last.Label),
			Body: fmt.Sprintf("%s gained %.1f points against %s. Identify what improved and replicate it.",
				last.Label, delta, prev.Label),
			Severity: SeveritySuccess,
		}
	default:
		return nil
	}
}

func worstByCompliance(rows []report.GroupRow) *report.GroupRow {
	var worst *report.GroupRow
	for i := range rows {
		if worst == nil || rows[i].CompliancePct < worst.CompliancePct {
			worst = &rows[i]
		}
	}
	return worst
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
