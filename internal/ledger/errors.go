package ledger

import "errors"

// errEmptyLedger is returned by Root and GenerateProof before the first
// Append.
var errEmptyLedger = errors.New("ledger: no entries appended yet")
