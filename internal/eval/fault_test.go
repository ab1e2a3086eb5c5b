package eval

import "testing"

func intPtr(v int) *int { return &v }

func TestAttributeFault(t *testing.T) {
	tests := []struct {
		name         string
		dispatchDev  *int
		transitDev   *int
		carrier      string
		expectedKind FaultKind
		expectedName string
	}{
		{
			name:         "dispatch late only",
			dispatchDev:  intPtr(2),
			transitDev:   intPtr(0),
			carrier:      "X",
			expectedKind: FaultWarehouse,
		},
		{
			name:         "transit late only",
			dispatchDev:  intPtr(0),
			transitDev:   intPtr(3),
			carrier:      "X",
			expectedKind: FaultCarrier,
			expectedName: "X",
		},
		{
			name:         "both late",
			dispatchDev:  intPtr(2),
			transitDev:   intPtr(3),
			carrier:      "X",
			expectedKind: FaultMixed,
		},
		{
			name:         "both nil",
			dispatchDev:  nil,
			transitDev:   nil,
			carrier:      "X",
			expectedKind: FaultNone,
		},
		{
			name:         "negative deviations",
			dispatchDev:  intPtr(-1),
			transitDev:   intPtr(-2),
			carrier:      "X",
			expectedKind: FaultNone,
		},
		{
			name:         "transit late with missing carrier",
			dispatchDev:  nil,
			transitDev:   intPtr(1),
			carrier:      "  ",
			expectedKind: FaultCarrier,
			expectedName: UnknownCarrier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AttributeFault(tt.dispatchDev, tt.transitDev, tt.carrier)

			if got.Kind != tt.expectedKind {
				t.Errorf("expected kind %s, got %s", tt.expectedKind, got.Kind)
			}
			if got.Carrier != tt.expectedName {
				t.Errorf("expected carrier %q, got %q", tt.expectedName, got.Carrier)
			}
		})
	}
}
