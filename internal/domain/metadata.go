package domain

// AssetMetadata is the descriptive data for the underlying asset a sale
// represents. It is owned independently of the sale and linked only by
// provenance or by a direct reference field, never guaranteed to exist
// at a predictable identifier.
type AssetMetadata struct {
	ID          ObjectID
	Name        string
	Symbol      string
	Description string
	IconURL     string
}

// PlaceholderMetadata is rendered when resolution fails. Callers must
// degrade to it rather than failing the page.
var PlaceholderMetadata = AssetMetadata{
	Name:        "Unknown Asset",
	Symbol:      "UNK",
	Description: "No description available",
	IconURL:     "https://via.placeholder.com/300x300?text=No+Image",
}

// MetadataFromRecord decodes an AssetMetadata object's field tree.
func MetadataFromRecord(rec *Record) (*AssetMetadata, error) {
	if rec == nil || rec.Fields == nil {
		return nil, ErrMalformedRecord
	}
	meta := &AssetMetadata{ID: rec.ID}
	meta.Name, _ = FieldString(rec.Fields, "$.name")
	meta.Symbol, _ = FieldString(rec.Fields, "$.symbol")
	meta.Description, _ = FieldString(rec.Fields, "$.description")
	meta.IconURL, _ = FieldString(rec.Fields, "$.icon_url")
	return meta, nil
}
