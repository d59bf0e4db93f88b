package domain

// ClickAction is the button pressed by a seller.
type ClickAction string

const (
	ClickConfirm ClickAction = "confirm"
	ClickDeny    ClickAction = "deny"
)

func (a ClickAction) Valid() bool {
	return a == ClickConfirm || a == ClickDeny
}

// MessageRef locates one message on the messaging platform.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// OutboundMessage is the registry row written once per successfully posted
// offer message. It is append-only: the platform-side message may later be
// deactivated, but the registry row itself is never mutated or deleted.
type OutboundMessage struct {
	OrderID         string
	SellerID        string
	InventoryUnitID string
	ChannelID       string
	MessageID       string
	DecidedPrice    float64
}

func (m OutboundMessage) Ref() MessageRef {
	return MessageRef{ChannelID: m.ChannelID, MessageID: m.MessageID}
}

// ClickEvent is one inbound button press: the decoded click token plus the
// platform-supplied location of the clicked message.
type ClickEvent struct {
	Action          ClickAction
	OrderID         string
	SellerID        string
	InventoryUnitID string
	DecidedPrice    float64
	ChannelID       string
	MessageID       string
}

func (e ClickEvent) Ref() MessageRef {
	return MessageRef{ChannelID: e.ChannelID, MessageID: e.MessageID}
}

// ChannelKind distinguishes the two levels of the destination hierarchy: a
// per-seller grouping and the text channels under it.
type ChannelKind string

const (
	ChannelGroup ChannelKind = "group"
	ChannelText  ChannelKind = "text"
)

// Channel is one destination on the messaging platform.
type Channel struct {
	ID       string
	Name     string
	ParentID string
	Kind     ChannelKind
}

// OfferMessage is the content of one interactive offer, with the encoded
// click tokens for its two buttons.
type OfferMessage struct {
	Body         string
	ConfirmToken string
	DenyToken    string
}
