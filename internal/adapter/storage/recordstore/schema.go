package recordstore

import (
	"fmt"
	"strings"
)

// Schema is the explicit mapping from this service's vocabulary to the
// record store's table and field names. It is resolved once at startup and
// validated then; the adapter never probes multiple candidate names at
// request time.
type Schema struct {
	OrdersTable   string
	UnitsTable    string
	SalesTable    string
	MessagesTable string

	OrderStatusField  string
	OrderMatchedValue string

	UnitProductField  string
	UnitQuantityField string

	SaleOrderField   string
	SaleSellerField  string
	SaleUnitField    string
	SalePriceField   string
	SaleCreatedField string

	MsgOrderField   string
	MsgSellerField  string
	MsgUnitField    string
	MsgChannelField string
	MsgMessageField string
	MsgPriceField   string
}

// Validate fails fast on any absent mapping.
func (s Schema) Validate() error {
	required := map[string]string{
		"orders table":        s.OrdersTable,
		"units table":         s.UnitsTable,
		"sales table":         s.SalesTable,
		"messages table":      s.MessagesTable,
		"order status field":  s.OrderStatusField,
		"order matched value": s.OrderMatchedValue,
		"unit product field":  s.UnitProductField,
		"unit quantity field": s.UnitQuantityField,
		"sale order field":    s.SaleOrderField,
		"sale seller field":   s.SaleSellerField,
		"sale unit field":     s.SaleUnitField,
		"sale price field":    s.SalePriceField,
		"sale created field":  s.SaleCreatedField,
		"msg order field":     s.MsgOrderField,
		"msg seller field":    s.MsgSellerField,
		"msg unit field":      s.MsgUnitField,
		"msg channel field":   s.MsgChannelField,
		"msg message field":   s.MsgMessageField,
		"msg price field":     s.MsgPriceField,
	}

	var missing []string
	for name, v := range required {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("record store schema incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// DefaultSchema is the mapping for the stock base layout.
func DefaultSchema() Schema {
	return Schema{
		OrdersTable:   "Orders",
		UnitsTable:    "InventoryUnits",
		SalesTable:    "Sales",
		MessagesTable: "OfferMessages",

		OrderStatusField:  "Status",
		OrderMatchedValue: "matched",

		UnitProductField:  "Product",
		UnitQuantityField: "Quantity",

		SaleOrderField:   "Order",
		SaleSellerField:  "Seller",
		SaleUnitField:    "Unit",
		SalePriceField:   "Price",
		SaleCreatedField: "CreatedAt",

		MsgOrderField:   "Order",
		MsgSellerField:  "Seller",
		MsgUnitField:    "Unit",
		MsgChannelField: "ChannelId",
		MsgMessageField: "MessageId",
		MsgPriceField:   "Price",
	}
}
