package domain

import (
	"context"
)

// ObjectID is the hex identifier of a versioned ledger object.
type ObjectID string

// Address is the hex address of an account on the ledger.
type Address string

// Digest is the identifier of a transaction on the ledger.
type Digest string

// Record is a versioned ledger object as returned by the full node.
// Fields holds the decoded Move field tree; its shape depends on the
// object's type, so callers extract values through the field helpers
// rather than assuming a fixed layout.
type Record struct {
	ID ObjectID
	// Type is the full Move type tag, e.g.
	// "0xabc::template::Sale<0xdef::template::GALERIE_NFT>".
	Type  string
	Owner Address
	// PreviousTransaction is the digest of the transaction that last
	// touched this object. For a freshly created object it is the
	// provenance pointer to the creating transaction.
	PreviousTransaction Digest
	Fields              map[string]any
}

// Event is one entry of the append-only event stream.
type Event struct {
	Type       string
	TxDigest   Digest
	ParsedJSON map[string]any
}

// ObjectChange names one object touched by a transaction.
type ObjectChange struct {
	ID   ObjectID
	Type string
}

// TransactionEffects lists the objects a transaction created and mutated.
type TransactionEffects struct {
	Digest  Digest
	Created []ObjectChange
	Mutated []ObjectChange
}

// CreatedObject returns the created entry for id, if the transaction
// created it.
func (t *TransactionEffects) CreatedObject(id ObjectID) (ObjectChange, bool) {
	for _, c := range t.Created {
		if c.ID == id {
			return c, true
		}
	}
	return ObjectChange{}, false
}

// Touched reports whether id appears in either the created or the
// mutated list.
func (t *TransactionEffects) Touched(id ObjectID) bool {
	if _, ok := t.CreatedObject(id); ok {
		return true
	}
	for _, c := range t.Mutated {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CoinMetadata is the registered metadata object of a fungible coin type.
type CoinMetadata struct {
	Decimals    uint8
	Name        string
	Symbol      string
	Description string
	IconURL     string
}

// ObjectReader defines point reads, bulk reads and owner-scoped
// enumeration of ledger objects.
type ObjectReader interface {
	// GetObject retrieves a single object by id.
	// Returns ErrNotFound if the object does not exist.
	GetObject(ctx context.Context, id ObjectID) (*Record, error)

	// MultiGetObjects retrieves many objects in one batched call.
	// Absent objects are returned as nil entries; the result preserves
	// the order of ids.
	MultiGetObjects(ctx context.Context, ids []ObjectID) ([]*Record, error)

	// GetOwnedObjects enumerates objects owned by owner. If structType
	// is non-empty only objects of that exact type are returned.
	GetOwnedObjects(ctx context.Context, owner Address, structType string) ([]*Record, error)
}

// EventReader queries the append-only event stream by event type tag.
type EventReader interface {
	// QueryEvents returns up to limit events of the given type, most
	// recent first.
	QueryEvents(ctx context.Context, eventType string, limit int) ([]Event, error)
}

// TransactionReader fetches recorded transaction effects.
type TransactionReader interface {
	// GetTransaction retrieves the effects of one transaction by digest.
	// Returns ErrNotFound if the digest is unknown.
	GetTransaction(ctx context.Context, digest Digest) (*TransactionEffects, error)

	// QueryTransactionsByObject returns up to limit transactions that
	// touched the given object, most recent first.
	QueryTransactionsByObject(ctx context.Context, id ObjectID, limit int) ([]TransactionEffects, error)

	// QueryTransactionsByEntryPoint returns up to limit transactions
	// that invoked the given Move entry point, most recent first.
	QueryTransactionsByEntryPoint(ctx context.Context, pkg, module, function string, limit int) ([]TransactionEffects, error)
}

// CoinReader reads the ledger's registered per-coin-type counters.
type CoinReader interface {
	// TotalIssued returns the registered total issued sub-units for the
	// coin type. Returns ErrNotFound if the type is unregistered.
	TotalIssued(ctx context.Context, coinType string) (uint64, error)

	// CoinMetadata returns the registered metadata object for the coin
	// type. Returns ErrNotFound if none is published.
	CoinMetadata(ctx context.Context, coinType string) (*CoinMetadata, error)
}
