package domain

// OfferAction is the outcome of comparing a normalized ask against the
// buyer's ceiling.
type OfferAction string

const (
	ActionConfirm      OfferAction = "confirm"
	ActionCounterOffer OfferAction = "counter"
)

// OfferDecision is derived per seller at dispatch time and never stored.
// DecidedPrice and DisplayAskPrice are already rounded to two decimals and
// expressed in the seller's natural display regime.
type OfferDecision struct {
	Action          OfferAction
	DecidedPrice    float64
	DisplayAskPrice float64
	RegimeLabel     string
}
