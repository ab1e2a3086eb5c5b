package eval

import "strings"

// UnknownCarrier is the placeholder used when a transit delay has no
// carrier recorded against it.
const UnknownCarrier = "unspecified"

// AttributeFault decides which stage is responsible for a delay.
// "Positive" means strictly greater than zero; a nil deviation counts as
// non-positive.
func AttributeFault(dispatchDeviation, transitDeviation *int, carrier string) FaultArea {
	dispatchLate := dispatchDeviation != nil && *dispatchDeviation > 0
	transitLate := transitDeviation != nil && *transitDeviation > 0

	switch {
	case dispatchLate && transitLate:
		return FaultArea{Kind: FaultMixed}
	case dispatchLate:
		return FaultArea{Kind: FaultWarehouse}
	case transitLate:
		name := strings.TrimSpace(carrier)
		if name == "" {
			name = UnknownCarrier
		}
		return FaultArea{Kind: FaultCarrier, Carrier: name}
	default:
		return FaultArea{Kind: FaultNone}
	}
}
