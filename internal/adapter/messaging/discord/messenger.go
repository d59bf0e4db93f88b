// Package discord implements the Messenger port on a Discord guild: one
// category per seller with fixed request channels under it, offer messages
// with Confirm/Deny buttons, and in-place edits that strip the buttons when
// a message is deactivated.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

type Messenger struct {
	session *discordgo.Session
	guildID string
	log     *zap.Logger
}

func New(session *discordgo.Session, guildID string, log *zap.Logger) *Messenger {
	return &Messenger{session: session, guildID: guildID, log: log}
}

func (m *Messenger) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	channels, err := m.session.GuildChannels(m.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: list guild channels: %v", domain.ErrUpstream, err)
	}

	out := make([]domain.Channel, 0, len(channels))
	for _, ch := range channels {
		kind, ok := kindOf(ch.Type)
		if !ok {
			continue
		}
		out = append(out, domain.Channel{
			ID:       ch.ID,
			Name:     ch.Name,
			ParentID: ch.ParentID,
			Kind:     kind,
		})
	}
	return out, nil
}

func (m *Messenger) CreateChannel(ctx context.Context, name string, kind domain.ChannelKind, parentID string) (*domain.Channel, error) {
	chType := discordgo.ChannelTypeGuildText
	if kind == domain.ChannelGroup {
		chType = discordgo.ChannelTypeGuildCategory
	}

	ch, err := m.session.GuildChannelCreateComplex(m.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     chType,
		ParentID: parentID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: create channel %q: %v", domain.ErrUpstream, name, err)
	}

	return &domain.Channel{ID: ch.ID, Name: ch.Name, ParentID: ch.ParentID, Kind: kind}, nil
}

func (m *Messenger) PostOffer(ctx context.Context, channelID string, msg domain.OfferMessage) (string, error) {
	sent, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: msg.Body,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Confirm",
						Style:    discordgo.SuccessButton,
						CustomID: msg.ConfirmToken,
					},
					discordgo.Button{
						Label:    "Deny",
						Style:    discordgo.DangerButton,
						CustomID: msg.DenyToken,
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: post offer: %v", domain.ErrUpstream, err)
	}
	return sent.ID, nil
}

// Deactivate strips the buttons and appends the note as a quote line. The
// edit is idempotent: re-editing an already-deactivated message reapplies
// the same terminal content.
func (m *Messenger) Deactivate(ctx context.Context, ref domain.MessageRef, note string) error {
	current, err := m.session.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: read message %s: %v", domain.ErrUpstream, ref.MessageID, err)
	}

	content := current.Content + "\n> " + note
	if len(current.Components) == 0 {
		// Already deactivated; keep the original note rather than stacking.
		content = current.Content
	}
	empty := []discordgo.MessageComponent{}

	_, err = m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ref.ChannelID,
		ID:         ref.MessageID,
		Content:    &content,
		Components: &empty,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: edit message %s: %v", domain.ErrUpstream, ref.MessageID, err)
	}
	return nil
}

func kindOf(t discordgo.ChannelType) (domain.ChannelKind, bool) {
	switch t {
	case discordgo.ChannelTypeGuildCategory:
		return domain.ChannelGroup, true
	case discordgo.ChannelTypeGuildText:
		return domain.ChannelText, true
	}
	return "", false
}
