package domain

import "errors"

var (
	// ErrUnknownTrackerType means a label has no mapping in the active variant.
	ErrUnknownTrackerType = errors.New("unknown tracker type")
	// ErrVariantAmbiguous means the creative format matched no known variant
	// and the standard vocabulary was assumed.
	ErrVariantAmbiguous = errors.New("creative format matches no known variant")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrPatchFailed      = errors.New("patch failed")
	// ErrMalformedInput rejects a whole input file before any API call.
	ErrMalformedInput = errors.New("malformed input")
	// ErrAuthExpired means no valid credential is available.
	ErrAuthExpired     = errors.New("credential expired or missing")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPhase    = errors.New("invalid session phase")
	ErrRunNotFound     = errors.New("run not found")
)
