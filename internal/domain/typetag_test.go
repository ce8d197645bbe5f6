package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testBasePkg  = "0x15d4cfac5ec612a56d34e9696c8b39064f95b6096e291bf6eacd1add705c52aa"
	testInner    = "0x3e0a52f03c5a95059bf4dde161b31b65cfed1f61ff3824a006e2961bb04f528a::template::GALERIE_NFT"
	testCapType  = testBasePkg + "::tokenized_asset::AssetCap<" + testInner + ">"
	testMetaType = testBasePkg + "::tokenized_asset::AssetMetadata<" + testInner + ">"
)

func TestAssetCapInner(t *testing.T) {
	inner, ok := AssetCapInner(testCapType)
	assert.True(t, ok)
	assert.Equal(t, testInner, inner)

	_, ok = AssetCapInner("0x2::coin::Coin<0x2::sui::SUI>")
	assert.False(t, ok)

	_, ok = AssetCapInner("")
	assert.False(t, ok)
}

func TestMetadataType(t *testing.T) {
	assert.Equal(t, testMetaType, MetadataType(testBasePkg, testInner))
}

func TestIsMetadataType(t *testing.T) {
	// Exact composition matches.
	assert.True(t, IsMetadataType(testMetaType, testInner))

	// A redeployed base package changes the address prefix but the
	// suffix match must still hold.
	redeployed := "0xffff::tokenized_asset::AssetMetadata<" + testInner + ">"
	assert.True(t, IsMetadataType(redeployed, testInner))

	// Same inner parameter under a different outer type must not match.
	assert.False(t, IsMetadataType(testCapType, testInner))

	// Same outer type over a different inner parameter must not match.
	other := testBasePkg + "::tokenized_asset::AssetMetadata<0x9::template::OTHER>"
	assert.False(t, IsMetadataType(other, testInner))
}

func TestReceiptTypeMatching(t *testing.T) {
	receipt := testBasePkg + "::tokenized_asset::TokenizedAsset<" + testInner + ">"
	assert.True(t, IsReceiptType(receipt, testInner))
	assert.True(t, IsReceiptType("0xffff::tokenized_asset::TokenizedAsset<"+testInner+">", testInner))
	assert.False(t, IsReceiptType(testMetaType, testInner))
}

func TestCoinType(t *testing.T) {
	assert.Equal(t, "0x2::coin::Coin<0xabc::galerie::MONA>", CoinType("0xabc::galerie::MONA"))
}
