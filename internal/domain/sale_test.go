package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directBalanceRecord() *Record {
	return &Record{
		ID:                  "0xsale1",
		Type:                "0x3e0a::template::Sale<" + testInner + ">",
		PreviousTransaction: "DigestSaleCreate",
		Fields: map[string]any{
			"total_supply": "1000",
			"total_price":  "50000",
			"cap": map[string]any{
				"type": testCapType,
				"fields": map[string]any{
					"id": map[string]any{"id": "0xcap1"},
					"supply": map[string]any{
						"fields": map[string]any{"value": "300"},
					},
				},
			},
		},
	}
}

func vaultRecord() *Record {
	return &Record{
		ID:                  "0xvault1",
		Type:                "0x3e0a::vault::Vault",
		PreviousTransaction: "DigestVaultCreate",
		Fields: map[string]any{
			"total_supply": "500",
			"total_price":  "250000",
			"treasury_id":  "0xtreasury1",
			"coin_type":    "0xabc::galerie::MONA",
			"name":         "Mona Lisa",
			"symbol":       "MONA",
			"description":  "Tokenized masterpiece",
			"icon_url":     "https://example.com/mona.jpg",
		},
	}
}

func TestParseSale_DirectBalance(t *testing.T) {
	sale, err := ParseSale(directBalanceRecord())
	require.NoError(t, err)

	assert.Equal(t, GenDirectBalance, sale.Generation)
	assert.Equal(t, uint64(1000), sale.TotalUnits)
	assert.Equal(t, uint64(50000), sale.TotalPrice)
	assert.Equal(t, ObjectID("0xcap1"), sale.AuthorityID)
	assert.Equal(t, testInner, sale.InnerType)
	assert.Equal(t, uint64(300), sale.EmbeddedSupply)
	assert.Equal(t, Digest("DigestSaleCreate"), sale.ProvenanceTx)
	assert.NoError(t, sale.Validate())
}

func TestParseSale_DirectBalanceFlatSupply(t *testing.T) {
	// Older records serialize the cap supply without the nested
	// "fields" level.
	rec := directBalanceRecord()
	capFields := rec.Fields["cap"].(map[string]any)["fields"].(map[string]any)
	capFields["supply"] = map[string]any{"value": "42"}

	sale, err := ParseSale(rec)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), sale.EmbeddedSupply)
}

func TestParseSale_DirectMetadataReference(t *testing.T) {
	rec := directBalanceRecord()
	rec.Fields["meta_id"] = "0xmeta"

	sale, err := ParseSale(rec)
	require.NoError(t, err)
	assert.Equal(t, ObjectID("0xmeta"), sale.MetadataID)
}

func TestParseSale_Vault(t *testing.T) {
	sale, err := ParseSale(vaultRecord())
	require.NoError(t, err)

	assert.Equal(t, GenVault, sale.Generation)
	assert.Equal(t, ObjectID("0xtreasury1"), sale.AuthorityID)
	assert.Equal(t, "0xabc::galerie::MONA", sale.CoinType)
	assert.Equal(t, "Mona Lisa", sale.InlineName)
	assert.Equal(t, "MONA", sale.InlineSymbol)
	assert.Equal(t, "0x2::coin::Coin<0xabc::galerie::MONA>", sale.ReceiptFilter())
}

func TestParseSale_VaultCoinMeta(t *testing.T) {
	// A vault without an inline descriptive payload sources its
	// metadata from the coin registry.
	rec := vaultRecord()
	delete(rec.Fields, "name")
	delete(rec.Fields, "symbol")
	delete(rec.Fields, "description")
	delete(rec.Fields, "icon_url")

	sale, err := ParseSale(rec)
	require.NoError(t, err)
	assert.Equal(t, GenVaultCoinMeta, sale.Generation)
}

func TestParseSale_Malformed(t *testing.T) {
	_, err := ParseSale(nil)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseSale(&Record{ID: "0x1", Fields: map[string]any{"unrelated": "x"}})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSale_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sale    Sale
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid sale",
			sale:    Sale{ID: "0x1", TotalUnits: 10, AuthorityID: "0x2"},
			wantErr: false,
		},
		{
			name:    "zero total units",
			sale:    Sale{ID: "0x1", AuthorityID: "0x2"},
			wantErr: true,
			errMsg:  "sale total units must be positive",
		},
		{
			name:    "missing authority",
			sale:    Sale{ID: "0x1", TotalUnits: 10},
			wantErr: true,
			errMsg:  "sale must reference an issuance authority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sale.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionEffects_Touched(t *testing.T) {
	fx := TransactionEffects{
		Digest:  "D1",
		Created: []ObjectChange{{ID: "0xa", Type: "T"}},
		Mutated: []ObjectChange{{ID: "0xb", Type: "U"}},
	}
	assert.True(t, fx.Touched("0xa"))
	assert.True(t, fx.Touched("0xb"))
	assert.False(t, fx.Touched("0xc"))

	_, created := fx.CreatedObject("0xa")
	assert.True(t, created)
	_, created = fx.CreatedObject("0xb")
	assert.False(t, created)
}
