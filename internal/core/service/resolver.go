package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/port"
)

const (
	noteDenied     = "declined by seller"
	noteProcessing = "already processing"
	noteMatched    = "matched"
	noteConfirmed  = "confirmed"
)

// Resolver consumes click events and enforces single-winner semantics for
// each order. The sale write is the durable fact of record; sibling message
// deactivation is cosmetic cleanup and never blocks or rolls it back.
type Resolver struct {
	store port.RecordStore
	msgr  port.Messenger
	lease port.Guard // optional, may be nil
	locks *keyedLocks
	log   *zap.Logger
}

func NewResolver(store port.RecordStore, msgr port.Messenger, lease port.Guard, log *zap.Logger) *Resolver {
	return &Resolver{
		store: store,
		msgr:  msgr,
		lease: lease,
		locks: newKeyedLocks(),
		log:   log,
	}
}

// HandleClick resolves one button press.
//
// Deny needs no guard: it deactivates only the clicked message and leaves
// every sibling clickable. Confirm runs the race: in-process guard, durable
// sale-exists check, then commit plus best-effort deactivation of every
// registry entry for the order.
func (r *Resolver) HandleClick(ctx context.Context, ev domain.ClickEvent) error {
	switch ev.Action {
	case domain.ClickDeny:
		return r.handleDeny(ctx, ev)
	case domain.ClickConfirm:
		return r.handleConfirm(ctx, ev)
	}
	return fmt.Errorf("%w: action %q", domain.ErrValidation, ev.Action)
}

func (r *Resolver) handleDeny(ctx context.Context, ev domain.ClickEvent) error {
	if err := r.msgr.Deactivate(ctx, ev.Ref(), noteDenied); err != nil {
		return fmt.Errorf("deactivate denied message: %w", err)
	}
	r.log.Info("offer denied",
		zap.String("orderId", ev.OrderID),
		zap.String("sellerId", ev.SellerID))
	return nil
}

func (r *Resolver) handleConfirm(ctx context.Context, ev domain.ClickEvent) error {
	if !r.locks.tryAcquire(ev.OrderID) {
		// A confirm for this order is mid-flight in this process; this
		// click lost the same-process race.
		if err := r.msgr.Deactivate(ctx, ev.Ref(), noteProcessing); err != nil {
			r.log.Warn("annotate racing click failed",
				zap.String("orderId", ev.OrderID), zap.Error(err))
		}
		return domain.ErrAlreadyProcessing
	}
	defer r.locks.release(ev.OrderID)

	if r.lease != nil {
		ok, err := r.lease.Acquire(ctx, ev.OrderID)
		if err != nil {
			// The lease only narrows the cross-replica window; proceed on
			// the durable predicate alone when it is unavailable.
			r.log.Warn("guard lease unavailable",
				zap.String("orderId", ev.OrderID), zap.Error(err))
		} else if !ok {
			if err := r.msgr.Deactivate(ctx, ev.Ref(), noteProcessing); err != nil {
				r.log.Warn("annotate racing click failed",
					zap.String("orderId", ev.OrderID), zap.Error(err))
			}
			return domain.ErrAlreadyProcessing
		} else {
			defer func() {
				if err := r.lease.Release(context.WithoutCancel(ctx), ev.OrderID); err != nil {
					r.log.Warn("guard lease release failed",
						zap.String("orderId", ev.OrderID), zap.Error(err))
				}
			}()
		}
	}

	won, err := r.store.SaleExistsForOrder(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("sale-exists check: %w", err)
	}
	if won {
		// A prior click, possibly on another replica, already won. Sweep
		// every outstanding message, this one included.
		r.log.Info("confirm lost race, sweeping messages",
			zap.String("orderId", ev.OrderID),
			zap.String("sellerId", ev.SellerID))
		r.deactivateAll(ctx, ev.OrderID, noteMatched, nil)
		return domain.ErrRaceLost
	}

	if err := r.commitWin(ctx, ev); err != nil {
		return err
	}

	// Commit is durable from here on; everything below is logged-only.
	if err := r.msgr.Deactivate(ctx, ev.Ref(), noteConfirmed); err != nil {
		r.log.Error("deactivate winning message failed",
			zap.String("orderId", ev.OrderID), zap.Error(err))
	}
	clicked := ev.Ref()
	r.deactivateAll(ctx, ev.OrderID, noteMatched, &clicked)

	r.log.Info("order won",
		zap.String("orderId", ev.OrderID),
		zap.String("sellerId", ev.SellerID),
		zap.Float64("price", ev.DecidedPrice))
	return nil
}

// commitWin writes the durable side effects. The sale row is the commit
// point: a failure there aborts the click with no partial state, while the
// stock patch and order status patch after it are logged-only so an
// already-recorded sale is never left contradicted by an abort.
func (r *Resolver) commitWin(ctx context.Context, ev domain.ClickEvent) error {
	sale := domain.SaleRecord{
		ID:              uuid.NewString(),
		OrderID:         ev.OrderID,
		SellerID:        ev.SellerID,
		InventoryUnitID: ev.InventoryUnitID,
		Price:           ev.DecidedPrice,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.store.CreateSale(ctx, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	unit, err := r.store.UnitByID(ctx, ev.InventoryUnitID)
	switch {
	case err != nil:
		r.log.Error("read unit for decrement failed",
			zap.String("orderId", ev.OrderID),
			zap.String("unitId", ev.InventoryUnitID),
			zap.Error(err))
	case unit == nil:
		r.log.Error("unit missing for decrement",
			zap.String("orderId", ev.OrderID),
			zap.String("unitId", ev.InventoryUnitID))
	default:
		qty := unit.Quantity - 1
		if qty < 0 {
			qty = 0
		}
		if err := r.store.SetUnitQuantity(ctx, ev.InventoryUnitID, qty); err != nil {
			r.log.Error("stock decrement failed",
				zap.String("orderId", ev.OrderID),
				zap.String("unitId", ev.InventoryUnitID),
				zap.Error(err))
		}
	}

	if err := r.store.MarkOrderMatched(ctx, ev.OrderID); err != nil {
		r.log.Error("mark order matched failed",
			zap.String("orderId", ev.OrderID), zap.Error(err))
	}

	return nil
}

// ForceClose deactivates every registry entry for the order with the given
// reason. Safe to repeat: a second call re-edits already-dead messages and
// disables nothing new.
func (r *Resolver) ForceClose(ctx context.Context, orderID, reason string) (int, error) {
	entries, err := r.store.MessagesForOrder(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("query registry: %w", err)
	}
	r.deactivateRefs(ctx, orderID, refsOf(entries), reason)
	return len(entries), nil
}

// deactivateAll sweeps every registry entry for the order, skipping the
// already-handled clicked message when given.
func (r *Resolver) deactivateAll(ctx context.Context, orderID, note string, skip *domain.MessageRef) {
	entries, err := r.store.MessagesForOrder(ctx, orderID)
	if err != nil {
		r.log.Error("query registry for sweep failed",
			zap.String("orderId", orderID), zap.Error(err))
		return
	}

	refs := make([]domain.MessageRef, 0, len(entries))
	for _, ref := range refsOf(entries) {
		if skip != nil && ref == *skip {
			continue
		}
		refs = append(refs, ref)
	}
	r.deactivateRefs(ctx, orderID, refs, note)
}

// deactivateRefs edits messages in parallel, best effort: each failure is
// logged and dropped, with no retry and no effect on its siblings.
func (r *Resolver) deactivateRefs(ctx context.Context, orderID string, refs []domain.MessageRef, note string) {
	var wg sync.WaitGroup
	for _, ref := range refs {
		wg.Add(1)
		go func(ref domain.MessageRef) {
			defer wg.Done()
			if err := r.msgr.Deactivate(ctx, ref, note); err != nil {
				r.log.Warn("sibling deactivation failed",
					zap.String("orderId", orderID),
					zap.String("channelId", ref.ChannelID),
					zap.String("messageId", ref.MessageID),
					zap.Error(err))
			}
		}(ref)
	}
	wg.Wait()
}

func refsOf(entries []domain.OutboundMessage) []domain.MessageRef {
	refs := make([]domain.MessageRef, len(entries))
	for i, e := range entries {
		refs[i] = e.Ref()
	}
	return refs
}
