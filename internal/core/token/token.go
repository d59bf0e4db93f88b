// Package token encodes the complete context of a button press into one
// opaque string, so a restarted process can act on a click without any
// session state.
package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

// Separator never occurs inside a field: ids are alphanumeric and the price
// is numeric.
const Separator = "|"

const fieldCount = 5

// Click is the decoded payload of one button identifier.
type Click struct {
	Action          domain.ClickAction
	OrderID         string
	SellerID        string
	InventoryUnitID string
	DecidedPrice    float64
}

// Encode renders the fixed field order action|order|seller|unit|price.
func Encode(action domain.ClickAction, orderID, sellerID, unitID string, decidedPrice float64) string {
	return strings.Join([]string{
		string(action),
		orderID,
		sellerID,
		unitID,
		strconv.FormatFloat(decidedPrice, 'f', 2, 64),
	}, Separator)
}

// Decode parses a button identifier back into its fields.
func Decode(s string) (Click, error) {
	parts := strings.Split(s, Separator)
	if len(parts) != fieldCount {
		return Click{}, fmt.Errorf("%w: expected %d fields, got %d", domain.ErrDecodeToken, fieldCount, len(parts))
	}

	action := domain.ClickAction(parts[0])
	if !action.Valid() {
		return Click{}, fmt.Errorf("%w: unknown action %q", domain.ErrDecodeToken, parts[0])
	}

	price, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return Click{}, fmt.Errorf("%w: bad price %q", domain.ErrDecodeToken, parts[4])
	}

	return Click{
		Action:          action,
		OrderID:         parts[1],
		SellerID:        parts[2],
		InventoryUnitID: parts[3],
		DecidedPrice:    price,
	}, nil
}
