package report

import (
	"testing"

	"github.com/tecuops/dispatch-sla/internal/eval"
)

func TestSummarize(t *testing.T) {
	orders := []eval.EvaluatedOrder{
		{
			Order:             eval.Order{Status: "Entregado"},
			Compliance:        eval.StatusCompliant,
			DispatchDeviation: intPtr(0),
			TransitDeviation:  intPtr(-1),
		},
		{
			Order:             eval.Order{Status: "Entregado"},
			Compliance:        eval.StatusNonCompliant,
			DispatchDeviation: intPtr(2),
			TransitDeviation:  intPtr(3),
		},
		{
			Order:             eval.Order{Status: "Entregado"},
			Compliance:        eval.StatusNonCompliant,
			DispatchDeviation: intPtr(1),
			TransitDeviation:  intPtr(6),
		},
		{
			Order:      eval.Order{Status: "Entregado"},
			Compliance: eval.StatusPending,
		},
		// Non-delivered rows are invisible to the summary
		{
			Order:      eval.Order{Status: "Devuelto"},
			Compliance: eval.StatusNonCompliant,
		},
	}

	s := Summarize(orders)
	if s == nil {
		t.Fatal("expected a summary, got nil")
	}

	if s.Total != 4 {
		t.Errorf("expected total 4, got %d", s.Total)
	}
	if s.Compliant != 1 || s.NonCompliant != 2 || s.Pending != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.CompliancePct != 25.0 {
		t.Errorf("expected 25.0%%, got %.1f", s.CompliancePct)
	}

	// Only strictly positive deviations count
	if s.DispatchDeviated != 2 || s.TransitDeviated != 2 {
		t.Errorf("unexpected deviation counts: %+v", s)
	}
	if s.AvgDispatchDeviation != 1.5 {
		t.Errorf("expected avg dispatch deviation 1.5, got %.1f", s.AvgDispatchDeviation)
	}
	if s.AvgTransitDeviation != 4.5 {
		t.Errorf("expected avg transit deviation 4.5, got %.1f", s.AvgTransitDeviation)
	}
	if s.MaxDispatchDeviation != 2 || s.MaxTransitDeviation != 6 {
		t.Errorf("unexpected maxima: %+v", s)
	}

	// compliant + non-compliant + pending covers the delivered set
	if s.Compliant+s.NonCompliant+s.Pending != s.Total {
		t.Errorf("status counts do not cover the total: %+v", s)
	}
}

func TestSummarizeNoData(t *testing.T) {
	if s := Summarize(nil); s != nil {
		t.Errorf("expected nil summary for empty input, got %+v", s)
	}

	// Rows exist but none delivered: still no data, not zeros
	orders := []eval.EvaluatedOrder{
		{Order: eval.Order{Status: "En tránsito"}, Compliance: eval.StatusPending},
	}
	if s := Summarize(orders); s != nil {
		t.Errorf("expected nil summary without delivered orders, got %+v", s)
	}
}

func TestSummarizeZeroDeviations(t *testing.T) {
	orders := []eval.EvaluatedOrder{
		{
			Order:             eval.Order{Status: "Entregado"},
			Compliance:        eval.StatusCompliant,
			DispatchDeviation: intPtr(0),
			TransitDeviation:  intPtr(-2),
		},
	}

	s := Summarize(orders)
	if s == nil {
		t.Fatal("expected a summary, got nil")
	}
	if s.AvgDispatchDeviation != 0 || s.MaxDispatchDeviation != 0 {
		t.Errorf("expected zero dispatch stats, got %+v", s)
	}
	if s.AvgTransitDeviation != 0 || s.MaxTransitDeviation != 0 {
		t.Errorf("expected zero transit stats, got %+v", s)
	}
}
