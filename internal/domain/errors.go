package domain

import "errors"

// ErrNotFound signals that an expected object, transaction or registry
// entry is absent from the ledger. It is always recoverable: resolvers
// fall through to the next strategy or degrade to a placeholder.
var ErrNotFound = errors.New("not found on ledger")

// ErrMalformedRecord signals that a record's field tree does not have
// the shape its type tag implies. Treated the same as ErrNotFound by
// callers: partial data is preferred over a failed page.
var ErrMalformedRecord = errors.New("malformed ledger record")
