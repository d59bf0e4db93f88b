package pricing

import (
	"math"
	"testing"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

func order(ceiling, rate float64, country string) domain.Order {
	return domain.Order{
		ID:           "ord-1",
		MaxCeiling:   ceiling,
		BuyerCountry: country,
		BuyerVatRate: rate,
	}
}

func seller(ask float64, regime domain.VatRegime, country string) domain.SellerCandidate {
	return domain.SellerCandidate{
		SellerID:      "sel-1",
		AskPrice:      ask,
		VatRegime:     regime,
		SellerCountry: country,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDecide_StandardBelowCeiling(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "NL"), seller(90.00, domain.RegimeStandard, "NL"))

	if dec.Action != domain.ActionConfirm {
		t.Fatalf("expected confirm, got %s", dec.Action)
	}
	if !almostEqual(dec.DecidedPrice, 90.00) {
		t.Errorf("expected decided price 90.00, got %.2f", dec.DecidedPrice)
	}
}

func TestDecide_StandardAboveCeiling(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "NL"), seller(110.00, domain.RegimeStandard, "NL"))

	if dec.Action != domain.ActionCounterOffer {
		t.Fatalf("expected counter offer, got %s", dec.Action)
	}
	if !almostEqual(dec.DecidedPrice, 100.00) {
		t.Errorf("expected decided price 100.00, got %.2f", dec.DecidedPrice)
	}
	if !almostEqual(dec.DisplayAskPrice, 110.00) {
		t.Errorf("expected display ask 110.00, got %.2f", dec.DisplayAskPrice)
	}
}

func TestDecide_MarginComparedAsIs(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "NL"), seller(100.00, domain.RegimeMargin, "DE"))

	if dec.Action != domain.ActionConfirm {
		t.Fatalf("expected confirm at equality, got %s", dec.Action)
	}
	if !almostEqual(dec.DecidedPrice, 100.00) {
		t.Errorf("expected decided price 100.00, got %.2f", dec.DecidedPrice)
	}
}

func TestDecide_DomesticZeroRatedGrossUp(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "NL"), seller(80.00, domain.RegimeZeroRated, "NL"))

	if dec.Action != domain.ActionConfirm {
		t.Fatalf("expected confirm, got %s", dec.Action)
	}
	// 80.00 * 1.21 = 96.80, and that grossed figure is what the seller sees.
	if !almostEqual(dec.DecidedPrice, 96.80) {
		t.Errorf("expected decided price 96.80, got %.2f", dec.DecidedPrice)
	}
	if !almostEqual(dec.DisplayAskPrice, 96.80) {
		t.Errorf("expected display ask 96.80, got %.2f", dec.DisplayAskPrice)
	}
}

func TestDecide_DomesticZeroRatedBoundaryConfirms(t *testing.T) {
	// A * (1+r) == ceiling exactly: 100 / 1.25 = 80.
	dec := Decide(order(100.00, 0.25, "FR"), seller(80.00, domain.RegimeZeroRated, "FR"))

	if dec.Action != domain.ActionConfirm {
		t.Fatalf("expected confirm at equality, got %s", dec.Action)
	}
}

func TestDecide_DomesticZeroRatedOverCeiling(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "NL"), seller(90.00, domain.RegimeZeroRated, "NL"))

	if dec.Action != domain.ActionCounterOffer {
		t.Fatalf("expected counter offer, got %s", dec.Action)
	}
	// Domestic zero-rated is reclassified to the VAT-included basis, so the
	// counter lands at the ceiling itself.
	if !almostEqual(dec.DecidedPrice, 100.00) {
		t.Errorf("expected decided price 100.00, got %.2f", dec.DecidedPrice)
	}
	if !almostEqual(dec.DisplayAskPrice, 108.90) {
		t.Errorf("expected display ask 108.90, got %.2f", dec.DisplayAskPrice)
	}
}

func TestDecide_CrossBorderZeroRatedDiscountsCeiling(t *testing.T) {
	// Ceiling 100 at 21% discounts to 82.6446...; an ask of 82.64 confirms,
	// an ask of 82.65 does not. Proves the ceiling is not rounded before the
	// comparison.
	below := Decide(order(100.00, 0.21, "NL"), seller(82.64, domain.RegimeZeroRated, "DE"))
	if below.Action != domain.ActionConfirm {
		t.Fatalf("expected confirm for 82.64, got %s", below.Action)
	}
	if !almostEqual(below.DecidedPrice, 82.64) {
		t.Errorf("expected decided price 82.64, got %.2f", below.DecidedPrice)
	}

	above := Decide(order(100.00, 0.21, "NL"), seller(82.65, domain.RegimeZeroRated, "DE"))
	if above.Action != domain.ActionCounterOffer {
		t.Fatalf("expected counter offer for 82.65, got %s", above.Action)
	}
	// Counter at the discounted ceiling, rounded only for display.
	if !almostEqual(above.DecidedPrice, 82.64) {
		t.Errorf("expected decided price 82.64, got %.2f", above.DecidedPrice)
	}
}

func TestDecide_CountryMatchIsCaseInsensitive(t *testing.T) {
	dec := Decide(order(100.00, 0.21, "nl"), seller(80.00, domain.RegimeZeroRated, "NL"))

	if !almostEqual(dec.DecidedPrice, 96.80) {
		t.Errorf("expected domestic gross-up to 96.80, got %.2f", dec.DecidedPrice)
	}
}

func TestRound2_HalfUp(t *testing.T) {
	// Half cases use binary-exact inputs so the test exercises the half-up
	// rule rather than float representation noise.
	cases := []struct {
		in   float64
		want float64
	}{
		{96.804999, 96.80},
		{0.125, 0.13},
		{0.375, 0.38},
		{100.0, 100.0},
	}
	for _, c := range cases {
		if got := Round2(c.in); !almostEqual(got, c.want) {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
