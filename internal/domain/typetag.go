package domain

import (
	"regexp"
	"strings"
)

// Type-tag algebra. The link between a sale, its issuance authority and
// its metadata object is carried only by Move type instantiations such as
//
//	<base>::tokenized_asset::AssetCap<0xdef::template::GALERIE_NFT>
//	<base>::tokenized_asset::AssetMetadata<0xdef::template::GALERIE_NFT>
//	<base>::tokenized_asset::TokenizedAsset<0xdef::template::GALERIE_NFT>
//
// so resolving one from another means extracting the inner type parameter
// and re-composing it under a different outer name. The base package
// address is not stable across deployments, which is why matching falls
// back to prefix/suffix checks instead of full equality.

var assetCapInnerRe = regexp.MustCompile(`AssetCap<([^>]+)>`)

const (
	assetMetadataMarker  = "AssetMetadata<"
	tokenizedAssetMarker = "::tokenized_asset::TokenizedAsset<"
)

// AssetCapInner extracts the inner type parameter from an AssetCap type
// tag. Returns false if the tag is not an AssetCap instantiation.
func AssetCapInner(typeTag string) (string, bool) {
	m := assetCapInnerRe.FindStringSubmatch(typeTag)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MetadataType composes the exact AssetMetadata type tag for the given
// base package and inner type parameter.
func MetadataType(basePkg, inner string) string {
	return basePkg + "::tokenized_asset::AssetMetadata<" + inner + ">"
}

// IsMetadataType reports whether typeTag is an AssetMetadata
// instantiation over inner, regardless of the base package address.
func IsMetadataType(typeTag, inner string) bool {
	return strings.Contains(typeTag, assetMetadataMarker) &&
		strings.HasSuffix(typeTag, "<"+inner+">")
}

// ReceiptTypeSuffix returns the type suffix shared by all bespoke
// balance-carrying receipt objects minted for the given inner type,
// regardless of the base package address they were published under.
func ReceiptTypeSuffix(inner string) string {
	return tokenizedAssetMarker + inner + ">"
}

// IsReceiptType reports whether typeTag is a bespoke receipt object for
// the given inner type.
func IsReceiptType(typeTag, inner string) bool {
	return strings.HasSuffix(typeTag, ReceiptTypeSuffix(inner))
}

// CoinType composes the generic fungible receipt type for a published
// per-asset coin type.
func CoinType(coinInner string) string {
	return "0x2::coin::Coin<" + coinInner + ">"
}
