// Package pricing normalizes a seller's ask against the buyer's ceiling
// across VAT regimes and decides Confirm vs CounterOffer.
package pricing

import (
	"math"
	"strings"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

// Round2 rounds half-up to two decimals. It is applied only at the point of
// storage or display, never between normalization steps, so the multi-step
// regime conversion does not compound rounding error.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Decide compares one seller's ask against the order's ceiling.
//
// Margin and Standard asks are already on a VAT-included basis comparable to
// the ceiling. A zero-rated ask from a seller in the buyer's own jurisdiction
// is reclassified as domestic standard-rate: the ask is grossed up by the
// buyer's rate, and the grossed-up figure is also what the seller sees as
// "your price". A zero-rated ask from another jurisdiction stays on its net
// basis; the ceiling is discounted to that basis instead. Equality confirms.
func Decide(order domain.Order, seller domain.SellerCandidate) domain.OfferDecision {
	ask := seller.AskPrice
	ceiling := order.MaxCeiling

	normalizedAsk := ask
	normalizedCeiling := ceiling
	label := regimeLabel(seller.VatRegime)
	domestic := strings.EqualFold(seller.SellerCountry, order.BuyerCountry)

	if seller.VatRegime == domain.RegimeZeroRated {
		if domestic {
			normalizedAsk = ask * (1 + order.BuyerVatRate)
			label = "standard (reclassified domestic)"
		} else {
			normalizedCeiling = ceiling / (1 + order.BuyerVatRate)
		}
	}

	// The displayed ask is the normalized ask in the seller's display
	// regime: grossed up for the domestic zero-rated case, as-is otherwise.
	display := normalizedAsk

	if normalizedAsk <= normalizedCeiling {
		return domain.OfferDecision{
			Action:          domain.ActionConfirm,
			DecidedPrice:    Round2(normalizedAsk),
			DisplayAskPrice: Round2(display),
			RegimeLabel:     label,
		}
	}

	// Counter at the ceiling, expressed on the same basis the ask was
	// compared on, which is the seller's natural display regime.
	return domain.OfferDecision{
		Action:          domain.ActionCounterOffer,
		DecidedPrice:    Round2(normalizedCeiling),
		DisplayAskPrice: Round2(display),
		RegimeLabel:     label,
	}
}

func regimeLabel(r domain.VatRegime) string {
	switch r {
	case domain.RegimeMargin:
		return "margin scheme"
	case domain.RegimeZeroRated:
		return "zero-rated"
	case domain.RegimeStandard:
		return "standard rate"
	}
	return string(r)
}
