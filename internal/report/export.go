package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tecuops/dispatch-sla/internal/eval"
)

// Plain tabular emission of the evaluated dataset and aggregate tables.
// Spreadsheet formats are a downstream concern; CSV is the output
// contract here.

var orderHeader = []string{
	"order_number", "client", "product", "description", "tracking_id",
	"city", "carrier", "status",
	"purchase_date", "dispatch_date", "delivery_date",
	"dispatch_business_days", "transit_business_days", "end_to_end_business_days",
	"transit_sla", "dispatch_deviation", "transit_deviation",
	"compliance", "fault_area", "month",
}

// WriteOrdersCSV writes the evaluated dataset as CSV.
func WriteOrdersCSV(w io.Writer, orders []eval.EvaluatedOrder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, o := range orders {
		record := []string{
			o.OrderNumber, o.Client, o.Product, o.Description, o.TrackingID,
			o.City, o.Carrier, o.Status,
			fmtDate(o.PurchaseDate), fmtDate(o.DispatchDate), fmtDate(o.DeliveryDate),
			fmtInt(o.DispatchBusinessDays), fmtInt(o.TransitBusinessDays), fmtInt(o.EndToEndBusinessDays),
			strconv.Itoa(o.TransitSLA), fmtInt(o.DispatchDeviation), fmtInt(o.TransitDeviation),
			string(o.Compliance), o.Fault.String(), o.MonthLabel,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGroupsCSV writes an aggregate table as CSV. keyName labels the
// grouping column (city, carrier or month).
func WriteGroupsCSV(w io.Writer, keyName string, rows []GroupRow) error {
	cw := csv.NewWriter(w)
	header := []string{keyName, "total", "compliant", "non_compliant", "compliance_pct",
		"avg_transit_deviation", "avg_dispatch_deviation"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		key := row.Key
		if row.Label != "" {
			key = row.Label
		}
		record := []string{
			key,
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Compliant),
			strconv.Itoa(row.NonCompliant),
			strconv.FormatFloat(row.CompliancePct, 'f', 1, 64),
			strconv.FormatFloat(row.AvgTransitDeviation, 'f', 2, 64),
			strconv.FormatFloat(row.AvgDispatchDeviation, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
