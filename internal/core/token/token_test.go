package token

import (
	"errors"
	"testing"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

func TestEncodeDecode_Roundtrip(t *testing.T) {
	s := Encode(domain.ClickConfirm, "ord1", "sel1", "unit1", 96.80)

	if s != "confirm|ord1|sel1|unit1|96.80" {
		t.Fatalf("unexpected encoding: %s", s)
	}

	c, err := Decode(s)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if c.Action != domain.ClickConfirm {
		t.Errorf("expected confirm, got %s", c.Action)
	}
	if c.OrderID != "ord1" || c.SellerID != "sel1" || c.InventoryUnitID != "unit1" {
		t.Errorf("unexpected ids: %+v", c)
	}
	if c.DecidedPrice != 96.80 {
		t.Errorf("expected price 96.80, got %v", c.DecidedPrice)
	}
}

func TestDecode_WrongFieldCount(t *testing.T) {
	_, err := Decode("confirm|ord1|sel1")
	if !errors.Is(err, domain.ErrDecodeToken) {
		t.Errorf("expected ErrDecodeToken, got %v", err)
	}
}

func TestDecode_UnknownAction(t *testing.T) {
	_, err := Decode("retract|ord1|sel1|unit1|10.00")
	if !errors.Is(err, domain.ErrDecodeToken) {
		t.Errorf("expected ErrDecodeToken, got %v", err)
	}
}

func TestDecode_BadPrice(t *testing.T) {
	_, err := Decode("deny|ord1|sel1|unit1|ninety")
	if !errors.Is(err, domain.ErrDecodeToken) {
		t.Errorf("expected ErrDecodeToken, got %v", err)
	}
}
