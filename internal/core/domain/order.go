package domain

// VatRegime is the tax treatment attached to a priced inventory unit. It
// determines how the seller's ask must be normalized before it can be
// compared against the buyer's ceiling.
type VatRegime string

const (
	RegimeMargin    VatRegime = "margin"
	RegimeZeroRated VatRegime = "zero_rated"
	RegimeStandard  VatRegime = "standard"
)

func (r VatRegime) Valid() bool {
	switch r {
	case RegimeMargin, RegimeZeroRated, RegimeStandard:
		return true
	}
	return false
}

// Order is the buyer-side input to a dispatch. It is created and owned by the
// external record store; this service only reads it.
type Order struct {
	ID           string
	HumanID      string
	SKU          string
	Size         string
	MaxCeiling   float64
	TargetPrice  float64
	BuyerCountry string
	BuyerVatRate float64
}

// SellerCandidate is one seller holding a unit that could fill an order.
type SellerCandidate struct {
	SellerID        string
	SellerName      string
	InventoryUnitID string
	ProductName     string
	AskPrice        float64
	VatRegime       VatRegime
	SellerCountry   string
	Quantity        int
}

// InventoryUnit is the record-store view of a seller's stock row, read back
// when a winning confirmation decrements it.
type InventoryUnit struct {
	ID          string
	ProductName string
	Quantity    int
}
