package report

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/tecuops/dispatch-sla/internal/eval"
)

func TestWriteOrdersCSV(t *testing.T) {
	orders := []eval.EvaluatedOrder{
		{
			Order: eval.Order{
				OrderNumber:  "1001",
				City:         "Bogotá",
				Carrier:      "Coordinadora",
				Status:       "Entregado",
				PurchaseDate: datePtr(2024, 1, 2),
			},
			DispatchBusinessDays: intPtr(2),
			TransitSLA:           3,
			TransitDeviation:     intPtr(1),
			Compliance:           eval.StatusCompliant,
			Fault:                eval.FaultArea{Kind: eval.FaultNone},
			MonthLabel:           "Ene-24",
		},
		{
			Order:      eval.Order{OrderNumber: "1002", Status: "En tránsito"},
			TransitSLA: 5,
			Compliance: eval.StatusPending,
			Fault:      eval.FaultArea{Kind: eval.FaultNone},
		},
	}

	var sb strings.Builder
	if err := WriteOrdersCSV(&sb, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 records, got %d rows", len(records))
	}

	header, first, second := records[0], records[1], records[2]
	if header[0] != "order_number" || header[len(header)-1] != "month" {
		t.Errorf("unexpected header: %v", header)
	}
	if first[0] != "1001" || first[8] != "2024-01-02" {
		t.Errorf("unexpected first record: %v", first)
	}

	// Missing values stay empty, not zero
	if second[8] != "" || second[11] != "" {
		t.Errorf("expected empty cells for missing data: %v", second)
	}
}

func TestWriteGroupsCSV(t *testing.T) {
	rows := []GroupRow{
		{Key: "2024-01", Label: "Ene-24", Total: 10, Compliant: 8, NonCompliant: 2, CompliancePct: 80.0, AvgTransitDeviation: 0.5},
	}

	var sb strings.Builder
	if err := WriteGroupsCSV(&sb, "month", rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[0][0] != "month" {
		t.Errorf("expected the key column named month, got %v", records[0])
	}
	// The label, not the raw key, is what lands in the file
	if records[1][0] != "Ene-24" || records[1][4] != "80.0" {
		t.Errorf("unexpected record: %v", records[1])
	}
}
