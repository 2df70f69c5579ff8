package ensemble

import "errors"

// ErrInvalidConfiguration covers a configuration that cannot run at all.
// New returns it when no pipeline is enabled or a gap penalty rewards
// rather than penalizes a gap; Run returns it when an enabled pipe needs
// an image transform and no ImagePreprocessor was supplied. A character
// set with no stored matrix does not produce it: Store.Load returns an
// empty matrix, and alignment then uses the fallback substitution for
// every non-identity pair.
var ErrInvalidConfiguration = errors.New("ensemble: invalid configuration")

// ErrMatrixUnavailable marks a character pair missing from the loaded
// substitution matrix. It is non-fatal, and no function in this module
// returns it: CharSubMatrix.Sub substitutes the caller's fallback value
// for a missing pair without reporting an error.
var ErrMatrixUnavailable = errors.New("ensemble: character pair not in matrix")

// ErrPostProcessingSoft marks a post-processing sub-step (dictionary
// lookup or spell correction) that could not run because no Dictionary
// was configured. Run logs it once per process, skips the dictionary
// sub-steps and still applies Substitute; it is never returned to the
// caller.
var ErrPostProcessingSoft = errors.New("ensemble: post-processing sub-step unavailable")
