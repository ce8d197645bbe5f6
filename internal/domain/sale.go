package domain

import (
	"errors"
	"fmt"
)

// Generation classifies which historical record shape a sale uses.
// It is not a stored field: it is inferred per call from the record's
// type signature and field shape.
type Generation string

const (
	// GenDirectBalance: the sale embeds its AssetCap by value, the cap
	// tracks a running issued count, and receipts are bespoke
	// TokenizedAsset balance objects parameterized by the asset type.
	GenDirectBalance Generation = "DIRECT_BALANCE"

	// GenVault: a vault record bundles a descriptive payload with
	// total-supply/total-price and references a standalone treasury;
	// receipts are generic fungible coins of a per-asset coin type.
	GenVault Generation = "VAULT"

	// GenVaultCoinMeta: as GenVault, but descriptive data and decimals
	// come from the coin type's registered CoinMetadata object.
	GenVaultCoinMeta Generation = "VAULT_COIN_META"
)

// Sale represents an active offering derived from a ledger record.
type Sale struct {
	ID         ObjectID
	Type       string
	Generation Generation

	// TotalUnits is the total issuable unit count; TotalPrice is the
	// total price in the smallest currency sub-unit.
	TotalUnits uint64
	TotalPrice uint64

	// MetadataID is the direct metadata-object reference, when the
	// record carries one. Empty for older records.
	MetadataID ObjectID

	// AuthorityID identifies the issuance authority: the embedded
	// AssetCap for direct-balance sales, the standalone treasury for
	// vault sales.
	AuthorityID ObjectID

	// InnerType is the asset type parameter extracted from the embedded
	// AssetCap's type tag (direct-balance sales only).
	InnerType string

	// EmbeddedSupply is the issued count read from the embedded cap
	// (direct-balance sales only; no extra round trip needed).
	EmbeddedSupply uint64

	// CoinType is the per-asset published coin type minting the sale's
	// receipts (vault sales only).
	CoinType string

	// Inline descriptive payload bundled on the vault record itself
	// (GenVault only).
	InlineName        string
	InlineSymbol      string
	InlineDescription string
	InlineIconURL     string

	// ProvenanceTx points at the transaction that last touched the sale
	// record. Right after creation it is the creating transaction;
	// purchases move it, which is why metadata resolution cannot rely
	// on it alone.
	ProvenanceTx Digest
}

// ParseSale derives a Sale from a raw ledger record, classifying its
// schema generation from the field shape.
// Returns ErrMalformedRecord wrapped with detail if the record matches
// no known generation.
func ParseSale(rec *Record) (*Sale, error) {
	if rec == nil || rec.Fields == nil {
		return nil, fmt.Errorf("sale record has no content: %w", ErrMalformedRecord)
	}

	sale := &Sale{
		ID:           rec.ID,
		Type:         rec.Type,
		ProvenanceTx: rec.PreviousTransaction,
	}
	sale.TotalUnits, _ = FieldUint64(rec.Fields, "$.total_supply")
	sale.TotalPrice, _ = FieldUint64(rec.Fields, "$.total_price")
	if metaID, ok := FieldString(rec.Fields, "$.meta_id"); ok {
		sale.MetadataID = ObjectID(metaID)
	}

	if capType, ok := FieldString(rec.Fields, "$.cap.type"); ok {
		sale.Generation = GenDirectBalance
		sale.InnerType, _ = AssetCapInner(capType)
		if capID, ok := FieldString(rec.Fields, "$.cap.fields.id.id"); ok {
			sale.AuthorityID = ObjectID(capID)
		}
		// The cap's supply value moved one nesting level between record
		// versions; try both shapes before giving up.
		sale.EmbeddedSupply, _ = FieldUint64(rec.Fields,
			"$.cap.fields.supply.fields.value",
			"$.cap.fields.supply.value",
			"$.cap.fields.supply",
		)
		return sale, nil
	}

	if treasuryID, ok := FieldString(rec.Fields, "$.treasury_id"); ok {
		sale.AuthorityID = ObjectID(treasuryID)
		sale.CoinType, _ = FieldString(rec.Fields, "$.coin_type")
		if name, ok := FieldString(rec.Fields, "$.name"); ok {
			sale.Generation = GenVault
			sale.InlineName = name
			sale.InlineSymbol, _ = FieldString(rec.Fields, "$.symbol")
			sale.InlineDescription, _ = FieldString(rec.Fields, "$.description")
			sale.InlineIconURL, _ = FieldString(rec.Fields, "$.icon_url")
		} else {
			sale.Generation = GenVaultCoinMeta
		}
		return sale, nil
	}

	return nil, fmt.Errorf("sale record %s matches no known shape: %w", rec.ID, ErrMalformedRecord)
}

// Validate ensures the sale adheres to domain rules.
func (s *Sale) Validate() error {
	if s.ID == "" {
		return errors.New("sale id cannot be empty")
	}
	if s.TotalUnits == 0 {
		return errors.New("sale total units must be positive")
	}
	if s.AuthorityID == "" {
		return errors.New("sale must reference an issuance authority")
	}
	return nil
}

// ReceiptFilter returns the owned-object filter for this sale's
// receipts: a type suffix for bespoke balance objects, the exact coin
// type for generic fungible units.
func (s *Sale) ReceiptFilter() string {
	switch s.Generation {
	case GenDirectBalance:
		return ReceiptTypeSuffix(s.InnerType)
	default:
		return CoinType(s.CoinType)
	}
}
