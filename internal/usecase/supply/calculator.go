package supply

import (
	"context"
	"math"

	"github.com/galerie-com/move/internal/domain"
)

// Source identifies which resolution path produced a circulating-supply
// figure. The event-aggregation fallback is an eventually-consistent
// approximation bounded by the event scan window, so callers surface the
// source rather than treating all figures as equally authoritative.
type Source string

const (
	SourceEmbeddedCap      Source = "embedded_cap"
	SourceCoinRegistry     Source = "coin_registry"
	SourceEventAggregation Source = "event_aggregation"
)

// Figure is a derived supply reading for one sale.
type Figure struct {
	// Circulating is the issued count in whole sale units.
	Circulating uint64
	// Remaining is max(0, total issuable - circulating).
	Remaining uint64
	Source    Source
}

// DefaultEventScanLimit bounds the purchase-event scan of the fallback
// path. Sales with more purchase events than this undercount.
const DefaultEventScanLimit = 100

// Calculator determines circulating units issued against a sale,
// adapting to whichever schema generation the record uses.
type Calculator struct {
	Coins  domain.CoinReader
	Events domain.EventReader

	// PurchasedEventType is the full event type tag emitted by the buy
	// entry point; its payload carries sale_id and amount.
	PurchasedEventType string

	// EventScanLimit bounds the fallback event scan.
	EventScanLimit int
}

// NewCalculator creates a new Calculator instance.
func NewCalculator(coins domain.CoinReader, events domain.EventReader, purchasedEventType string) *Calculator {
	return &Calculator{
		Coins:              coins,
		Events:             events,
		PurchasedEventType: purchasedEventType,
		EventScanLimit:     DefaultEventScanLimit,
	}
}

// Circulating computes the supply figure for a sale.
// Logic:
//   - Direct-balance sales carry the issued count on the embedded cap,
//     already fetched with the record: no round trip.
//   - Vault sales read the coin registry's total-issued counter for the
//     receipt coin type; if the counter is unavailable the purchase
//     events matching this sale are summed instead.
//   - Vault counters are sub-unit denominated and converted to whole
//     sale units using the coin's registered decimals (0 when the
//     registration is unavailable).
//
// Circulating never fails: a dead registry and a dead event stream
// degrade to a zero figure sourced from event aggregation.
func (c *Calculator) Circulating(ctx context.Context, sale *domain.Sale) Figure {
	if sale == nil {
		return Figure{Source: SourceEventAggregation}
	}

	if sale.Generation == domain.GenDirectBalance {
		circ := sale.EmbeddedSupply
		return Figure{
			Circulating: circ,
			Remaining:   domain.RemainingUnits(sale.TotalUnits, circ),
			Source:      SourceEmbeddedCap,
		}
	}

	subUnits, source := c.vaultSubUnits(ctx, sale)
	circ := c.toWholeUnits(ctx, sale, subUnits)
	return Figure{
		Circulating: circ,
		Remaining:   domain.RemainingUnits(sale.TotalUnits, circ),
		Source:      source,
	}
}

func (c *Calculator) vaultSubUnits(ctx context.Context, sale *domain.Sale) (uint64, Source) {
	if sale.CoinType != "" {
		if issued, err := c.Coins.TotalIssued(ctx, sale.CoinType); err == nil {
			return issued, SourceCoinRegistry
		}
	}
	return c.sumPurchaseEvents(ctx, sale), SourceEventAggregation
}

// sumPurchaseEvents approximates the issued counter by summing the
// amounts of purchase events whose embedded sale id matches. Events
// beyond the scan window are missed, so this can undercount.
func (c *Calculator) sumPurchaseEvents(ctx context.Context, sale *domain.Sale) uint64 {
	limit := c.EventScanLimit
	if limit <= 0 {
		limit = DefaultEventScanLimit
	}
	events, err := c.Events.QueryEvents(ctx, c.PurchasedEventType, limit)
	if err != nil {
		return 0
	}
	var total uint64
	for _, ev := range events {
		saleID, ok := domain.FieldString(ev.ParsedJSON, "$.sale_id")
		if !ok || domain.ObjectID(saleID) != sale.ID {
			continue
		}
		amount, ok := domain.FieldUint64(ev.ParsedJSON, "$.amount")
		if !ok {
			continue
		}
		total += amount
	}
	return total
}

// toWholeUnits converts a sub-unit denominated counter into whole sale
// units by dividing by 10^decimals.
func (c *Calculator) toWholeUnits(ctx context.Context, sale *domain.Sale, subUnits uint64) uint64 {
	decimals := uint8(0)
	if sale.CoinType != "" {
		if cm, err := c.Coins.CoinMetadata(ctx, sale.CoinType); err == nil && cm != nil {
			decimals = cm.Decimals
		}
	}
	if decimals == 0 {
		return subUnits
	}
	scale := uint64(math.Pow10(int(decimals)))
	if scale == 0 {
		return subUnits
	}
	return subUnits / scale
}
