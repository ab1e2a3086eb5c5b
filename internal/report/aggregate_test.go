package report

import (
	"testing"
	"time"

	"github.com/tecuops/dispatch-sla/internal/eval"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

func delivered(city, carrier, monthKey, monthLabel string, status eval.ComplianceStatus, transitDev *int) eval.EvaluatedOrder {
	return eval.EvaluatedOrder{
		Order: eval.Order{
			City:    city,
			Carrier: carrier,
			Status:  "Entregado",
		},
		Compliance:       status,
		TransitDeviation: transitDev,
		MonthKey:         monthKey,
		MonthLabel:       monthLabel,
	}
}

func sampleOrders() []eval.EvaluatedOrder {
	return []eval.EvaluatedOrder{
		delivered("Bogotá", "Coordinadora", "2024-01", "Ene-24", eval.StatusCompliant, intPtr(-1)),
		delivered("Bogotá", "Coordinadora", "2024-01", "Ene-24", eval.StatusCompliant, intPtr(0)),
		delivered("Bogotá", "Envía", "2024-02", "Feb-24", eval.StatusNonCompliant, intPtr(3)),
		delivered("Cali", "Envía", "2024-02", "Feb-24", eval.StatusCompliant, intPtr(-1)),
		delivered("", "Envía", "2024-02", "Feb-24", eval.StatusNonCompliant, intPtr(2)),
		// Not delivered: excluded from every aggregate
		{
			Order:      eval.Order{City: "Bogotá", Carrier: "Coordinadora", Status: "En tránsito"},
			Compliance: eval.StatusPending,
		},
	}
}

func TestByCity(t *testing.T) {
	rows := ByCity(sampleOrders())

	if len(rows) != 3 {
		t.Fatalf("expected 3 city groups, got %d", len(rows))
	}

	// Largest group first
	if rows[0].Key != "Bogotá" || rows[0].Total != 3 {
		t.Errorf("expected Bogotá with total 3 first, got %s/%d", rows[0].Key, rows[0].Total)
	}
	if rows[0].Compliant != 2 || rows[0].NonCompliant != 1 {
		t.Errorf("unexpected Bogotá counts: %+v", rows[0])
	}
	if rows[0].CompliancePct != 66.7 {
		t.Errorf("expected 66.7%% compliance, got %.1f", rows[0].CompliancePct)
	}

	// Missing city lands in the unspecified bucket
	foundUnspecified := false
	total := 0
	for _, row := range rows {
		total += row.Total
		if row.Key == UnspecifiedGroup {
			foundUnspecified = true
		}
	}
	if !foundUnspecified {
		t.Error("expected an unspecified bucket for the row without a city")
	}

	// Group totals cover every delivered order
	if want := len(Delivered(sampleOrders())); total != want {
		t.Errorf("group totals sum to %d, want %d", total, want)
	}
}

func TestByCarrier(t *testing.T) {
	rows := ByCarrier(sampleOrders())

	if len(rows) != 2 {
		t.Fatalf("expected 2 carrier groups, got %d", len(rows))
	}
	if rows[0].Key != "Envía" || rows[0].Total != 3 {
		t.Errorf("expected Envía with total 3 first, got %s/%d", rows[0].Key, rows[0].Total)
	}

	// Average includes non-positive deviations: (3 + -1 + 2) / 3
	if rows[0].AvgTransitDeviation != 1.33 {
		t.Errorf("expected avg transit deviation 1.33, got %.2f", rows[0].AvgTransitDeviation)
	}
}

func TestByMonth(t *testing.T) {
	rows := ByMonth(sampleOrders())

	if len(rows) != 2 {
		t.Fatalf("expected 2 month groups, got %d", len(rows))
	}

	// Chronological order with labels
	if rows[0].Key != "2024-01" || rows[0].Label != "Ene-24" {
		t.Errorf("expected 2024-01/Ene-24 first, got %s/%s", rows[0].Key, rows[0].Label)
	}
	if rows[1].Key != "2024-02" || rows[1].Total != 3 {
		t.Errorf("expected 2024-02 with total 3, got %s/%d", rows[1].Key, rows[1].Total)
	}
}

func TestAggregatesEmpty(t *testing.T) {
	// No delivered orders at all: nil, not empty rows
	pending := []eval.EvaluatedOrder{
		{Order: eval.Order{Status: "En tránsito"}, Compliance: eval.StatusPending},
	}

	if rows := ByCity(pending); rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
	if rows := ByCarrier(nil); rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
	if rows := ByMonth(nil); rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
}

func TestNonCompliant(t *testing.T) {
	rows := NonCompliant(sampleOrders())

	if len(rows) != 2 {
		t.Fatalf("expected 2 non-compliant orders, got %d", len(rows))
	}
	for _, o := range rows {
		if o.Compliance != eval.StatusNonCompliant {
			t.Errorf("unexpected status %s", o.Compliance)
		}
	}
}
