package metadata

import (
	"context"

	"github.com/galerie-com/move/internal/domain"
)

// Path identifies which strategy produced a metadata resolution.
// Every step down the chain costs more round trips than the last, so the
// path doubles as a cheap health signal for the ledger's linkage quality.
type Path string

const (
	PathDirectReference     Path = "direct_reference"
	PathSaleProvenance      Path = "sale_provenance"
	PathAuthorityProvenance Path = "authority_provenance"
	PathAuthorityScan       Path = "authority_scan"
	PathInlinePayload       Path = "inline_payload"
	PathCoinRegistry        Path = "coin_registry"
	PathNotFound            Path = "not_found"
)

// Resolution is the outcome of a metadata lookup. Metadata is nil when
// nothing was found; callers render the placeholder instead of failing.
type Resolution struct {
	Metadata *domain.AssetMetadata
	Path     Path
}

// Found reports whether the resolution produced a metadata record.
func (r Resolution) Found() bool {
	return r.Metadata != nil
}

// OrPlaceholder returns the resolved metadata, or the placeholder when
// resolution failed.
func (r Resolution) OrPlaceholder() domain.AssetMetadata {
	if r.Metadata != nil {
		return *r.Metadata
	}
	return domain.PlaceholderMetadata
}

// DefaultScanLimit bounds the transaction-history scan of the last
// fallback step.
const DefaultScanLimit = 50

// Resolver finds the descriptive-metadata object associated with a sale.
//
// No field reliably and permanently links metadata to a sale across all
// schema mutations, so the direct-balance path walks a chain of
// provenance fallbacks, each attempted only if the previous failed:
//
//  1. direct metadata-object reference on the sale record
//  2. created-object scan of the sale's own creating transaction
//  3. created-object scan of the issuance authority's creating transaction
//  4. bounded history scan to locate the authority's creation, then the
//     same created-object scan within it
//
// Vault-generation sales short-circuit: their metadata is bundled inline
// or published in the coin registry.
type Resolver struct {
	Objects domain.ObjectReader
	Txs     domain.TransactionReader
	Coins   domain.CoinReader

	// BasePackage is the tokenized-asset base package id used to compose
	// exact metadata type tags. Suffix matching covers redeployments.
	BasePackage string

	// ScanLimit bounds step 4's transaction-history scan.
	ScanLimit int
}

// NewResolver creates a new Resolver instance.
func NewResolver(objects domain.ObjectReader, txs domain.TransactionReader, coins domain.CoinReader, basePackage string) *Resolver {
	return &Resolver{
		Objects:     objects,
		Txs:         txs,
		Coins:       coins,
		BasePackage: basePackage,
		ScanLimit:   DefaultScanLimit,
	}
}

// Resolve runs the fallback chain for the given sale. It never returns
// an error: every step failure, transport included, falls through to the
// next strategy, and exhausting the chain yields a not-found resolution.
// Re-resolving the same sale without intervening ledger writes yields
// the same metadata object.
func (r *Resolver) Resolve(ctx context.Context, sale *domain.Sale) Resolution {
	if sale == nil {
		return Resolution{Path: PathNotFound}
	}

	switch sale.Generation {
	case domain.GenVault:
		return r.resolveInline(sale)
	case domain.GenVaultCoinMeta:
		return r.resolveCoinRegistry(ctx, sale)
	default:
		return r.resolveDirectBalance(ctx, sale)
	}
}

// resolveInline serves vault sales that bundle their descriptive payload
// on the record itself; no round trip needed.
func (r *Resolver) resolveInline(sale *domain.Sale) Resolution {
	if sale.InlineName == "" {
		return Resolution{Path: PathNotFound}
	}
	return Resolution{
		Metadata: &domain.AssetMetadata{
			Name:        sale.InlineName,
			Symbol:      sale.InlineSymbol,
			Description: sale.InlineDescription,
			IconURL:     sale.InlineIconURL,
		},
		Path: PathInlinePayload,
	}
}

// resolveCoinRegistry serves vault sales whose descriptive data lives in
// the coin type's registered metadata object.
func (r *Resolver) resolveCoinRegistry(ctx context.Context, sale *domain.Sale) Resolution {
	if sale.CoinType == "" {
		return Resolution{Path: PathNotFound}
	}
	cm, err := r.Coins.CoinMetadata(ctx, sale.CoinType)
	if err != nil || cm == nil {
		return Resolution{Path: PathNotFound}
	}
	return Resolution{
		Metadata: &domain.AssetMetadata{
			Name:        cm.Name,
			Symbol:      cm.Symbol,
			Description: cm.Description,
			IconURL:     cm.IconURL,
		},
		Path: PathCoinRegistry,
	}
}

func (r *Resolver) resolveDirectBalance(ctx context.Context, sale *domain.Sale) Resolution {
	// 1. Direct reference, when the record carries one.
	if sale.MetadataID != "" {
		if meta := r.readMetadata(ctx, sale.MetadataID); meta != nil {
			return Resolution{Metadata: meta, Path: PathDirectReference}
		}
	}

	// 2. The sale's creating transaction. Works until a purchase mutates
	// the record and moves its provenance pointer elsewhere.
	if sale.ProvenanceTx != "" {
		if meta := r.scanTransaction(ctx, sale.ProvenanceTx, sale.InnerType); meta != nil {
			return Resolution{Metadata: meta, Path: PathSaleProvenance}
		}
	}

	// 3. The authority's creating transaction. The embedded cap is never
	// mutated by purchases of other generations' receipts, so its
	// provenance pointer survives longer than the sale's.
	if sale.AuthorityID != "" {
		if meta := r.scanAuthorityProvenance(ctx, sale); meta != nil {
			return Resolution{Metadata: meta, Path: PathAuthorityProvenance}
		}
		// 4. Bounded history scan: find the transaction that created the
		// authority itself and scan that one.
		if meta := r.scanAuthorityHistory(ctx, sale); meta != nil {
			return Resolution{Metadata: meta, Path: PathAuthorityScan}
		}
	}

	return Resolution{Path: PathNotFound}
}

func (r *Resolver) scanAuthorityProvenance(ctx context.Context, sale *domain.Sale) *domain.AssetMetadata {
	capRec, err := r.Objects.GetObject(ctx, sale.AuthorityID)
	if err != nil || capRec == nil || capRec.PreviousTransaction == "" {
		return nil
	}
	return r.scanTransaction(ctx, capRec.PreviousTransaction, sale.InnerType)
}

func (r *Resolver) scanAuthorityHistory(ctx context.Context, sale *domain.Sale) *domain.AssetMetadata {
	limit := r.ScanLimit
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	history, err := r.Txs.QueryTransactionsByObject(ctx, sale.AuthorityID, limit)
	if err != nil {
		return nil
	}
	for i := range history {
		fx := &history[i]
		if _, created := fx.CreatedObject(sale.AuthorityID); !created {
			continue
		}
		// Only the creating transaction can hold the sibling metadata
		// object; once found, there is nothing further back to scan.
		if id, ok := r.findCreatedMetadata(fx, sale.InnerType); ok {
			return r.readMetadata(ctx, id)
		}
		return nil
	}
	return nil
}

// scanTransaction fetches one transaction's effects and scans its
// created objects for the expected metadata type.
func (r *Resolver) scanTransaction(ctx context.Context, digest domain.Digest, inner string) *domain.AssetMetadata {
	fx, err := r.Txs.GetTransaction(ctx, digest)
	if err != nil || fx == nil {
		return nil
	}
	id, ok := r.findCreatedMetadata(fx, inner)
	if !ok {
		return nil
	}
	return r.readMetadata(ctx, id)
}

// findCreatedMetadata scans a transaction's created-object list for a
// metadata object over the given inner type parameter: first by exact
// composed type, then by prefix/suffix match to cover base-package
// redeployments.
func (r *Resolver) findCreatedMetadata(fx *domain.TransactionEffects, inner string) (domain.ObjectID, bool) {
	if inner == "" {
		return "", false
	}
	if r.BasePackage != "" {
		exact := domain.MetadataType(r.BasePackage, inner)
		for _, c := range fx.Created {
			if c.Type == exact {
				return c.ID, true
			}
		}
	}
	for _, c := range fx.Created {
		if domain.IsMetadataType(c.Type, inner) {
			return c.ID, true
		}
	}
	return "", false
}

func (r *Resolver) readMetadata(ctx context.Context, id domain.ObjectID) *domain.AssetMetadata {
	rec, err := r.Objects.GetObject(ctx, id)
	if err != nil {
		return nil
	}
	meta, err := domain.MetadataFromRecord(rec)
	if err != nil {
		return nil
	}
	return meta
}
