package port

import (
	"context"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

// RecordStore is the external source-of-truth store. Every call goes to the
// wire: the service keeps no cache, so any replica can reconstruct pending
// state after a restart.
type RecordStore interface {
	// UnitByID reads one inventory unit.
	UnitByID(ctx context.Context, unitID string) (*domain.InventoryUnit, error)

	// CreateSale writes the sale row for a won order.
	CreateSale(ctx context.Context, sale domain.SaleRecord) error

	// SaleExistsForOrder is the durable idempotency predicate.
	SaleExistsForOrder(ctx context.Context, orderID string) (bool, error)

	// SetUnitQuantity patches a unit's remaining stock.
	SetUnitQuantity(ctx context.Context, unitID string, quantity int) error

	// MarkOrderMatched patches the order's status in the source of truth.
	MarkOrderMatched(ctx context.Context, orderID string) error

	// AppendMessage adds one registry row for a posted offer message.
	AppendMessage(ctx context.Context, msg domain.OutboundMessage) error

	// MessagesForOrder returns every registry row for the order.
	MessagesForOrder(ctx context.Context, orderID string) ([]domain.OutboundMessage, error)
}
