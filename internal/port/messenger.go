package port

import (
	"context"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

// Messenger is the messaging platform: a two-level channel directory plus
// interactive messages that can later be deactivated in place.
type Messenger interface {
	// ListChannels returns every destination visible to the service,
	// groupings and text channels alike.
	ListChannels(ctx context.Context) ([]domain.Channel, error)

	// CreateChannel creates a destination; parentID is empty for groupings.
	CreateChannel(ctx context.Context, name string, kind domain.ChannelKind, parentID string) (*domain.Channel, error)

	// PostOffer posts an interactive message with Confirm and Deny buttons
	// and returns the platform message id.
	PostOffer(ctx context.Context, channelID string, msg domain.OfferMessage) (string, error)

	// Deactivate edits a message in place: buttons removed, note appended.
	Deactivate(ctx context.Context, ref domain.MessageRef, note string) error
}
