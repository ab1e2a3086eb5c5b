// Package ingest is the dataset adapter: it reads tabular CSV exports of
// the dispatch log and resolves their heterogeneous column names to the
// canonical fields the evaluator consumes. The core pipeline never sees
// raw cell grids.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// Canonical field names.
const (
	fieldPurchaseDate = "purchase_date"
	fieldDispatchDate = "dispatch_date"
	fieldDeliveryDate = "delivery_date"
	fieldCity         = "city"
	fieldCarrier      = "carrier"
	fieldStatus       = "status"
	fieldOrderNumber  = "order_number"
	fieldClient       = "client"
	fieldProduct      = "product"
	fieldDescription  = "description"
	fieldTrackingID   = "tracking_id"
)

// columnAliases maps each canonical field to the header spellings seen in
// real exports, Spanish and English. Matching is case- and
// accent-insensitive; the first alias present in the header wins.
var columnAliases = map[string][]string{
	fieldPurchaseDate: {"fecha", "fecha compra", "fecha de compra", "fecha pedido", "fecha de pedido", "purchase date", "order date"},
	fieldClient:       {"cliente", "cliente/proveedor", "cliente / proveedor", "nombre cliente", "client", "customer"},
	fieldProduct:      {"producto", "referencia", "codigo producto", "product", "sku"},
	fieldDescription:  {"descripcion del producto", "descripcion", "detalle", "description"},
	fieldCity:         {"ciudad", "ciudad entrega", "ciudad de entrega", "destino", "lugar entrega", "lugar de entrega", "city", "destination"},
	fieldStatus:       {"status", "status entrega", "estado", "estado entrega", "estatus"},
	fieldCarrier:      {"transportadora", "transporte", "operador logistico", "carrier"},
	fieldTrackingID:   {"no guia", "numero de guia", "guia", "no. guia", "tracking", "tracking id"},
	fieldDispatchDate: {"fecha de despacho", "fecha despacho", "despacho", "dispatch date", "ship date"},
	fieldDeliveryDate: {"fecha de entrega", "fecha entrega", "entrega", "delivery date"},
	fieldOrderNumber:  {"no orden", "no. orden", "orden", "numero orden", "no_orden", "order", "order number"},
}

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2/1/2006",
	"2/1/2006 15:04",
	"2006/1/2",
	"2-1-2006",
}

// ReadFile reads a CSV dataset from disk.
func ReadFile(path string) ([]eval.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	orders, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return orders, nil
}

// ReadCSV reads a CSV dataset. The first record is the header; fully
// blank rows are dropped; unparseable or absent dates become nil, never
// errors.
func ReadCSV(r io.Reader) ([]eval.Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := resolveColumns(header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognizable columns in header %v", header)
	}

	var orders []eval.Order
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blankRow(record) {
			continue
		}

		get := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		orders = append(orders, eval.Order{
			OrderNumber:  get(fieldOrderNumber),
			Client:       get(fieldClient),
			Product:      get(fieldProduct),
			Description:  get(fieldDescription),
			TrackingID:   get(fieldTrackingID),
			City:         get(fieldCity),
			Carrier:      get(fieldCarrier),
			Status:       get(fieldStatus),
			PurchaseDate: parseDate(get(fieldPurchaseDate)),
			DispatchDate: parseDate(get(fieldDispatchDate)),
			DeliveryDate: parseDate(get(fieldDeliveryDate)),
		})
	}

	return orders, nil
}

// resolveColumns maps canonical fields to header indexes.
func resolveColumns(header []string) map[string]int {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		key := sla.Normalize(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}

	columns := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := normalized[sla.Normalize(alias)]; ok {
				columns[field] = idx
				break
			}
		}
	}
	return columns
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDate tries the known layouts; nil when the cell is empty or
// unparseable.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}
