package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Fixed upgrade offer policy. This is a deterministic mock business rule, not
// a pricing engine: every customer is offered the same target plan.
const (
	OfferedPlanMbps    = 250
	OfferPriceDeltaCZK = 0
	OfferValidUntil    = "2026-12-31"
)

// UpgradeOfferFor produces the fixed upgrade offer for a customer. Everything
// but the offer id is a pure function of the customer record; each call mints
// a fresh id, superseding any previously prepared offer.
func UpgradeOfferFor(customer Customer) Offer {
	return Offer{
		OfferID:         "offer-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		CustomerID:      customer.CustomerID,
		CurrentPlanMbps: customer.CurrentPlanMbps,
		OfferedPlanMbps: OfferedPlanMbps,
		PriceDeltaCZK:   OfferPriceDeltaCZK,
		Description: fmt.Sprintf("Upgrade internet speed from %d Mbps to %d Mbps.",
			customer.CurrentPlanMbps, OfferedPlanMbps),
		ValidUntil: OfferValidUntil,
	}
}
