package domain

// ReceiptBalance extracts the unit balance carried by a receipt object.
// Bespoke TokenizedAsset receipts serialize the balance either directly
// under the balance key or wrapped in a Balance struct; generic coins
// always use the direct form.
func ReceiptBalance(rec *Record) uint64 {
	if rec == nil {
		return 0
	}
	bal, _ := FieldUint64(rec.Fields,
		"$.balance",
		"$.balance.fields.value",
		"$.balance.value",
	)
	return bal
}
