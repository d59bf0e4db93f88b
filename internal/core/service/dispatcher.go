package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/core/pricing"
	"github.com/mklnz/offer-relay/internal/core/token"
	"github.com/mklnz/offer-relay/internal/port"
)

// SentMessage reports one successfully posted offer.
type SentMessage struct {
	SellerID  string `json:"sellerId"`
	MessageID string `json:"messageId"`
}

// FailedSeller reports one seller whose dispatch failed.
type FailedSeller struct {
	SellerID string `json:"sellerId"`
	Reason   string `json:"reason"`
}

// DispatchResult itemizes a fan-out. A per-seller failure never aborts the
// remaining sellers.
type DispatchResult struct {
	Sent   []SentMessage
	Failed []FailedSeller
}

// Dispatcher fans one order out to its candidate sellers as interactive
// offer messages and records each posted message in the registry.
type Dispatcher struct {
	store    port.RecordStore
	msgr     port.Messenger
	channels *ChannelResolver
	log      *zap.Logger
}

func NewDispatcher(store port.RecordStore, msgr port.Messenger, channels *ChannelResolver, log *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, msgr: msgr, channels: channels, log: log}
}

// Dispatch posts one offer per seller. Sellers are independent: each runs
// price decision, channel resolution, post, and registry append on its own,
// and failures are collected rather than propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, order domain.Order, sellers []domain.SellerCandidate) DispatchResult {
	var res DispatchResult

	for _, seller := range sellers {
		msgID, err := d.dispatchOne(ctx, order, seller)
		if err != nil {
			d.log.Warn("seller dispatch failed",
				zap.String("orderId", order.ID),
				zap.String("sellerId", seller.SellerID),
				zap.Error(err))
			res.Failed = append(res.Failed, FailedSeller{SellerID: seller.SellerID, Reason: err.Error()})
			continue
		}
		res.Sent = append(res.Sent, SentMessage{SellerID: seller.SellerID, MessageID: msgID})
	}

	d.log.Info("dispatch finished",
		zap.String("orderId", order.ID),
		zap.Int("sent", len(res.Sent)),
		zap.Int("failed", len(res.Failed)))

	return res
}

func (d *Dispatcher) dispatchOne(ctx context.Context, order domain.Order, seller domain.SellerCandidate) (string, error) {
	dec := pricing.Decide(order, seller)

	channelID, err := d.channels.Resolve(ctx, seller.SellerName, dec.Action)
	if err != nil {
		return "", err
	}

	msg := domain.OfferMessage{
		Body:         offerBody(order, seller, dec),
		ConfirmToken: token.Encode(domain.ClickConfirm, order.ID, seller.SellerID, seller.InventoryUnitID, dec.DecidedPrice),
		DenyToken:    token.Encode(domain.ClickDeny, order.ID, seller.SellerID, seller.InventoryUnitID, dec.DecidedPrice),
	}

	msgID, err := d.msgr.PostOffer(ctx, channelID, msg)
	if err != nil {
		return "", fmt.Errorf("post offer: %w", err)
	}

	entry := domain.OutboundMessage{
		OrderID:         order.ID,
		SellerID:        seller.SellerID,
		InventoryUnitID: seller.InventoryUnitID,
		ChannelID:       channelID,
		MessageID:       msgID,
		DecidedPrice:    dec.DecidedPrice,
	}
	if err := d.store.AppendMessage(ctx, entry); err != nil {
		// The message is live but unseen by the registry, so siblings
		// resolution cannot find it. Count the seller as failed.
		return "", fmt.Errorf("append registry entry: %w", err)
	}

	return msgID, nil
}

func offerBody(order domain.Order, seller domain.SellerCandidate, dec domain.OfferDecision) string {
	head := fmt.Sprintf("Order %s — %s (size %s)", order.HumanID, seller.ProductName, order.Size)

	if dec.Action == domain.ActionConfirm {
		return fmt.Sprintf("%s\nYour price: %.2f (%s)\nConfirm this sale?",
			head, dec.DisplayAskPrice, dec.RegimeLabel)
	}
	return fmt.Sprintf("%s\nYour price: %.2f (%s)\nWe can offer %.2f — accept?",
		head, dec.DisplayAskPrice, dec.RegimeLabel, dec.DecidedPrice)
}
