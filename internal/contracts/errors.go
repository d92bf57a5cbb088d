package contracts

import "errors"

// ErrProviderUnavailable signals that the catalog or price source failed or
// timed out. It propagates to callers as an empty result, never as a crash.
var ErrProviderUnavailable = errors.New("market data provider unavailable")

// ErrInsufficientHistory signals that a symbol has fewer bars than an
// indicator window requires. Downstream treats the indicator as undefined.
var ErrInsufficientHistory = errors.New("insufficient price history")
