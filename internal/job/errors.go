package job

import "errors"

// errMissingSeed and errMalformedDiff are protocol errors: a response
// missing the required seed field, or whose diff isn't 64 hex
// characters, discards the job entirely rather than installing a
// partial one.
var (
	errMissingSeed   = errors.New("challenge response missing seed")
	errMalformedDiff = errors.New("challenge response diff is not 64 hex characters")
)
