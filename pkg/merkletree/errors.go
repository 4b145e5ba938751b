package merkletree

import "errors"

// errNilAdapter is returned by Build when no digest adapter is supplied.
var errNilAdapter = errors.New("merkletree: digest adapter must not be nil")
