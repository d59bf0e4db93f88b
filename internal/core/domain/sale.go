package domain

import "time"

// SaleRecord is the durable fact of record for a won order. Exactly one may
// exist per order; the resolver enforces this cooperatively via the
// sale-exists predicate, not via a store-level constraint.
type SaleRecord struct {
	ID              string
	OrderID         string
	SellerID        string
	InventoryUnitID string
	Price           float64
	CreatedAt       time.Time
}
