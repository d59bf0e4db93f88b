package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/core/token"
)

// ClickHandler consumes decoded click events.
type ClickHandler interface {
	HandleClick(ctx context.Context, ev domain.ClickEvent) error
}

// SubscribeClicks attaches a component-interaction handler that decodes each
// button's custom id as a click token and hands it to the resolver. The
// interaction is acked immediately with a deferred update; the later message
// edit is the visible outcome.
func SubscribeClicks(session *discordgo.Session, handler ClickHandler, log *zap.Logger) func() {
	return session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionMessageComponent {
			return
		}

		click, err := token.Decode(ic.MessageComponentData().CustomID)
		if err != nil {
			log.Warn("ignoring unparseable button id",
				zap.String("customId", ic.MessageComponentData().CustomID),
				zap.Error(err))
			return
		}

		if err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			log.Warn("interaction ack failed",
				zap.String("orderId", click.OrderID), zap.Error(err))
		}

		ev := domain.ClickEvent{
			Action:          click.Action,
			OrderID:         click.OrderID,
			SellerID:        click.SellerID,
			InventoryUnitID: click.InventoryUnitID,
			DecidedPrice:    click.DecidedPrice,
			ChannelID:       ic.ChannelID,
			MessageID:       ic.Message.ID,
		}

		go func() {
			err := handler.HandleClick(context.Background(), ev)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrRaceLost), errors.Is(err, domain.ErrAlreadyProcessing):
				// Resolved as a normal losing path, nothing to do.
			default:
				log.Error("click processing failed",
					zap.String("orderId", ev.OrderID),
					zap.String("sellerId", ev.SellerID),
					zap.Error(err))
			}
		}()
	})
}
