package eval

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tecuops/dispatch-sla/internal/calendar"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(calendar.Colombia(), sla.DefaultParams())
}

// Purchase on the Jan 1 2024 holiday, dispatched next day, delivered
// Friday: dispatch on time, carrier one day over its 3-day window, yet
// end to end exactly at the 4-day threshold.
func TestEvaluateOrderScenario(t *testing.T) {
	e := newTestEvaluator()

	got := e.EvaluateOrder(Order{
		City:         "Bogotá",
		Carrier:      "Coordinadora",
		Status:       "Entregado",
		PurchaseDate: datePtr(2024, time.January, 1),
		DispatchDate: datePtr(2024, time.January, 2),
		DeliveryDate: datePtr(2024, time.January, 5),
	})

	if got.DispatchBusinessDays == nil || *got.DispatchBusinessDays != 1 {
		t.Errorf("expected dispatch business days 1, got %v", got.DispatchBusinessDays)
	}
	if got.DispatchDeviation == nil || *got.DispatchDeviation != 0 {
		t.Errorf("expected dispatch deviation 0, got %v", got.DispatchDeviation)
	}
	if got.TransitBusinessDays == nil || *got.TransitBusinessDays != 4 {
		t.Errorf("expected transit business days 4, got %v", got.TransitBusinessDays)
	}
	if got.TransitSLA != 3 {
		t.Errorf("expected transit SLA 3, got %d", got.TransitSLA)
	}
	if got.TransitDeviation == nil || *got.TransitDeviation != 1 {
		t.Errorf("expected transit deviation 1, got %v", got.TransitDeviation)
	}
	if got.Fault.Kind != FaultCarrier || got.Fault.Carrier != "Coordinadora" {
		t.Errorf("expected carrier fault, got %+v", got.Fault)
	}
	if got.EndToEndBusinessDays == nil || *got.EndToEndBusinessDays != 4 {
		t.Errorf("expected end-to-end business days 4, got %v", got.EndToEndBusinessDays)
	}
	if got.Compliance != StatusCompliant {
		t.Errorf("expected compliant, got %s", got.Compliance)
	}
	if got.MonthKey != "2024-01" || got.MonthLabel != "Ene-24" {
		t.Errorf("expected month 2024-01/Ene-24, got %s/%s", got.MonthKey, got.MonthLabel)
	}
}

func TestEvaluateOrderMissingDates(t *testing.T) {
	e := newTestEvaluator()

	tests := []struct {
		name               string
		order              Order
		expectedCompliance ComplianceStatus
		expectedFault      FaultKind
	}{
		{
			name: "no delivery date is pending",
			order: Order{
				City:         "Bogotá",
				PurchaseDate: datePtr(2024, time.February, 5),
				DispatchDate: datePtr(2024, time.February, 6),
			},
			expectedCompliance: StatusPending,
			expectedFault:      FaultNone,
		},
		{
			name:               "no dates at all",
			order:              Order{City: "Cali"},
			expectedCompliance: StatusPending,
			expectedFault:      FaultNone,
		},
		{
			name: "delivery without dispatch still classifies",
			order: Order{
				City:         "Pasto",
				PurchaseDate: datePtr(2024, time.February, 5),
				DeliveryDate: datePtr(2024, time.February, 23),
			},
			expectedCompliance: StatusNonCompliant,
			expectedFault:      FaultNone, // neither stage deviation computable
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EvaluateOrder(tt.order)

			if got.Compliance != tt.expectedCompliance {
				t.Errorf("expected compliance %s, got %s", tt.expectedCompliance, got.Compliance)
			}
			if got.Fault.Kind != tt.expectedFault {
				t.Errorf("expected fault %s, got %s", tt.expectedFault, got.Fault.Kind)
			}
		})
	}
}

// Business-day counting is not additive across the three date pairs: the
// dispatch day is counted by both stage spans but once end to end.
func TestEndToEndNotSumOfStages(t *testing.T) {
	e := newTestEvaluator()

	got := e.EvaluateOrder(Order{
		City:         "Bogotá",
		PurchaseDate: datePtr(2024, time.February, 5), // Mon
		DispatchDate: datePtr(2024, time.February, 6), // Tue
		DeliveryDate: datePtr(2024, time.February, 8), // Thu
	})

	stageSum := *got.DispatchBusinessDays + *got.TransitBusinessDays
	if *got.EndToEndBusinessDays == stageSum {
		t.Fatalf("expected end-to-end (%d) to differ from stage sum (%d)",
			*got.EndToEndBusinessDays, stageSum)
	}
	if *got.EndToEndBusinessDays != 4 {
		t.Errorf("expected end-to-end 4, got %d", *got.EndToEndBusinessDays)
	}
	if stageSum != 5 {
		t.Errorf("expected stage sum 5, got %d", stageSum)
	}
}

func TestEvaluateOrderIdempotent(t *testing.T) {
	e := newTestEvaluator()

	order := Order{
		OrderNumber:  "SO-1042",
		City:         "Medellín",
		Carrier:      "Envía",
		Status:       "Entregado",
		PurchaseDate: datePtr(2024, time.March, 4),
		DispatchDate: datePtr(2024, time.March, 5),
		DeliveryDate: datePtr(2024, time.March, 8),
	}

	first := e.EvaluateOrder(order)
	second := e.EvaluateOrder(order)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestEvaluateAllPreservesOrder(t *testing.T) {
	e := newTestEvaluator()

	var orders []Order
	for i := 0; i < 100; i++ {
		orders = append(orders, Order{
			OrderNumber:  string(rune('A' + i%26)),
			City:         "Bogotá",
			PurchaseDate: datePtr(2024, time.January, 2+i%20),
		})
	}

	results, err := e.EvaluateAll(context.Background(), orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(orders) {
		t.Fatalf("expected %d results, got %d", len(orders), len(results))
	}

	for i := range results {
		if results[i].OrderNumber != orders[i].OrderNumber {
			t.Fatalf("result %d out of order: %q vs %q", i, results[i].OrderNumber, orders[i].OrderNumber)
		}
	}
}

func TestDelivered(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{"Entregado", true},
		{"  ENTREGADO ", true},
		{"delivered", true},
		{"En tránsito", false},
		{"Devuelto", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			o := Order{Status: tt.status}
			if got := o.Delivered(); got != tt.expected {
				t.Errorf("Delivered(%q) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}
