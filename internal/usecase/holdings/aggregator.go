package holdings

import (
	"context"
	"fmt"

	"github.com/galerie-com/move/internal/domain"
)

// Aggregator determines how many units of a specific sale's receipts an
// account holds.
//
// Direct-balance receipts share a type across every sale minted from the
// same asset template, so type identity alone cannot attribute them; the
// aggregator traces each receipt's creating transaction and attributes
// the balance only when that transaction also touched this sale's
// authority or the sale record itself. Vault receipts are coins of a
// per-asset published type, so the exact type is attribution enough.
type Aggregator struct {
	Objects domain.ObjectReader
	Txs     domain.TransactionReader
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(objects domain.ObjectReader, txs domain.TransactionReader) *Aggregator {
	return &Aggregator{Objects: objects, Txs: txs}
}

// HoldingsFor sums the units of sale's receipts owned by account.
// The aggregate is best-effort: a receipt whose provenance cannot be
// read contributes zero rather than failing the call. Only the
// owned-object enumeration itself can surface an error.
func (a *Aggregator) HoldingsFor(ctx context.Context, account domain.Address, sale *domain.Sale) (uint64, error) {
	if sale == nil || account == "" {
		return 0, nil
	}

	if sale.Generation == domain.GenDirectBalance {
		return a.bespokeHoldings(ctx, account, sale)
	}
	return a.coinHoldings(ctx, account, sale)
}

// HoldingsForSaleID fetches the sale record by id, parses it and sums
// the account's holdings against it. Returns domain.ErrNotFound when no
// such record exists.
func (a *Aggregator) HoldingsForSaleID(ctx context.Context, account domain.Address, saleID domain.ObjectID) (uint64, error) {
	rec, err := a.Objects.GetObject(ctx, saleID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch sale %s: %w", saleID, err)
	}
	sale, err := domain.ParseSale(rec)
	if err != nil {
		return 0, err
	}
	return a.HoldingsFor(ctx, account, sale)
}

// bespokeHoldings enumerates the account's TokenizedAsset receipts and
// attributes each one by creating-transaction provenance.
func (a *Aggregator) bespokeHoldings(ctx context.Context, account domain.Address, sale *domain.Sale) (uint64, error) {
	// The base package address is not stable across deployments, so the
	// enumeration is unfiltered and receipts are matched by type suffix.
	owned, err := a.Objects.GetOwnedObjects(ctx, account, "")
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate owned objects for %s: %w", account, err)
	}

	var total uint64
	for _, rec := range owned {
		if rec == nil || !domain.IsReceiptType(rec.Type, sale.InnerType) {
			continue
		}
		if a.attributedToSale(ctx, rec, sale) {
			total += domain.ReceiptBalance(rec)
		}
	}
	return total, nil
}

// attributedToSale reports whether the receipt's creating transaction
// links it to this sale. Structurally identical receipts minted by a
// different sale fail the check because their creating transaction
// touched the other sale's authority, not this one's.
func (a *Aggregator) attributedToSale(ctx context.Context, rec *domain.Record, sale *domain.Sale) bool {
	if rec.PreviousTransaction == "" {
		return false
	}
	fx, err := a.Txs.GetTransaction(ctx, rec.PreviousTransaction)
	if err != nil || fx == nil {
		// Unreadable provenance contributes zero.
		return false
	}
	// Only the creating transaction carries the linkage; if the receipt
	// was merely mutated (e.g. transferred) afterwards, its pointer no
	// longer proves anything.
	if _, created := fx.CreatedObject(rec.ID); !created {
		return false
	}
	return fx.Touched(sale.AuthorityID) || fx.Touched(sale.ID)
}

// coinHoldings sums generic fungible receipts of the sale's exact coin
// type; type identity alone disambiguates.
func (a *Aggregator) coinHoldings(ctx context.Context, account domain.Address, sale *domain.Sale) (uint64, error) {
	if sale.CoinType == "" {
		return 0, nil
	}
	owned, err := a.Objects.GetOwnedObjects(ctx, account, domain.CoinType(sale.CoinType))
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate coins for %s: %w", account, err)
	}
	var total uint64
	for _, rec := range owned {
		total += domain.ReceiptBalance(rec)
	}
	return total, nil
}
