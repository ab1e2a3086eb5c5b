package eval

import "time"

// ComplianceStatus classifies an order against its end-to-end SLA.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNonCompliant ComplianceStatus = "non_compliant"
	StatusPending      ComplianceStatus = "pending"
)

// FaultKind names the stage responsible for a delay.
type FaultKind string

const (
	FaultNone      FaultKind = "not_applicable"
	FaultWarehouse FaultKind = "warehouse"
	FaultCarrier   FaultKind = "carrier"
	FaultMixed     FaultKind = "mixed"
)

// FaultArea attributes a delay to a stage. Carrier is set only when Kind
// is FaultCarrier.
type FaultArea struct {
	Kind    FaultKind `json:"kind"`
	Carrier string    `json:"carrier,omitempty"`
}

// String returns a display form of the fault area.
func (f FaultArea) String() string {
	switch f.Kind {
	case FaultWarehouse:
		return "Warehouse/Dispatch"
	case FaultCarrier:
		return "Carrier (" + f.Carrier + ")"
	case FaultMixed:
		return "Mixed (Warehouse + Carrier)"
	default:
		return "N/A"
	}
}

// Order is one input record. Dates are nil when the order has not reached
// that stage. Identifying fields are opaque pass-through data.
type Order struct {
	OrderNumber string `json:"orderNumber,omitempty"`
	Client      string `json:"client,omitempty"`
	Product     string `json:"product,omitempty"`
	Description string `json:"description,omitempty"`
	TrackingID  string `json:"trackingID,omitempty"`

	City    string `json:"city,omitempty"`
	Carrier string `json:"carrier,omitempty"`
	Status  string `json:"status,omitempty"`

	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	DispatchDate *time.Time `json:"dispatchDate,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

// EvaluatedOrder is an Order plus its derived SLA fields. It is never
// mutated after evaluation.
type EvaluatedOrder struct {
	Order

	DispatchBusinessDays *int `json:"dispatchBusinessDays,omitempty"`
	TransitBusinessDays  *int `json:"transitBusinessDays,omitempty"`
	EndToEndBusinessDays *int `json:"endToEndBusinessDays,omitempty"`

	TransitSLA        int  `json:"transitSLA"`
	DispatchDeviation *int `json:"dispatchDeviation,omitempty"`
	TransitDeviation  *int `json:"transitDeviation,omitempty"`

	Compliance ComplianceStatus `json:"compliance"`
	Fault      FaultArea        `json:"fault"`

	MonthKey   string `json:"monthKey,omitempty"`
	MonthLabel string `json:"monthLabel,omitempty"`
}
