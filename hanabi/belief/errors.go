package belief

import "errors"

// Fatal internal-consistency errors. Everything else the engine recovers
// from internally (resets, rewinds); only these propagate to the caller,
// and they mean the belief model has diverged from the real game.
var (
	// ErrConservation: an identity is accounted for more times than the
	// deck contains it.
	ErrConservation = errors.New("card conservation violated")

	// ErrRewindDepthExceeded: corrective replays kept invalidating each
	// other past the recursion ceiling.
	ErrRewindDepthExceeded = errors.New("rewind depth exceeded")
)
