package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/port"
)

const (
	confirmChannelName = "confirmation-requests"
	counterChannelName = "offer-requests"
)

// ChannelResolverConfig controls destination lookup. When FixedChannelID is
// set, every message goes to that one channel and the grouping hierarchy is
// bypassed entirely.
type ChannelResolverConfig struct {
	FixedChannelID string
	AutoCreate     bool
}

// ChannelResolver maps a seller to a destination channel: a grouping named
// after the seller, containing one fixed channel per offer kind. Lookup is
// get-or-create and idempotent.
type ChannelResolver struct {
	msgr port.Messenger
	cfg  ChannelResolverConfig
	log  *zap.Logger
}

func NewChannelResolver(msgr port.Messenger, cfg ChannelResolverConfig, log *zap.Logger) *ChannelResolver {
	return &ChannelResolver{msgr: msgr, cfg: cfg, log: log}
}

// Resolve returns the channel id for the seller and offer kind.
func (r *ChannelResolver) Resolve(ctx context.Context, sellerName string, action domain.OfferAction) (string, error) {
	if r.cfg.FixedChannelID != "" {
		return r.cfg.FixedChannelID, nil
	}

	channels, err := r.msgr.ListChannels(ctx)
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}

	group := findChannel(channels, sellerName, domain.ChannelGroup, "")
	if group == nil {
		if !r.cfg.AutoCreate {
			return "", fmt.Errorf("%w: no grouping for seller %q", domain.ErrNotFound, sellerName)
		}
		group, err = r.msgr.CreateChannel(ctx, sellerName, domain.ChannelGroup, "")
		if err != nil {
			return "", fmt.Errorf("create grouping %q: %w", sellerName, err)
		}
		r.log.Info("created seller grouping",
			zap.String("seller", sellerName),
			zap.String("channelId", group.ID))
	}

	childName := confirmChannelName
	if action == domain.ActionCounterOffer {
		childName = counterChannelName
	}

	child := findChannel(channels, childName, domain.ChannelText, group.ID)
	if child == nil {
		if !r.cfg.AutoCreate {
			return "", fmt.Errorf("%w: no %q channel under %q", domain.ErrNotFound, childName, sellerName)
		}
		child, err = r.msgr.CreateChannel(ctx, childName, domain.ChannelText, group.ID)
		if err != nil {
			return "", fmt.Errorf("create channel %q: %w", childName, err)
		}
		r.log.Info("created offer channel",
			zap.String("seller", sellerName),
			zap.String("name", childName),
			zap.String("channelId", child.ID))
	}

	return child.ID, nil
}

func findChannel(channels []domain.Channel, name string, kind domain.ChannelKind, parentID string) *domain.Channel {
	for i := range channels {
		c := &channels[i]
		if c.Kind == kind && c.ParentID == parentID && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
