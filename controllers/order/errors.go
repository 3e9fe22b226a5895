package orderControllers

import "errors"

// Sentinels used inside transaction bodies to abort with a typed rejection.
// They never escape to callers; the operation maps them to a Result.
var (
	errNotFound          = errors.New("order not found")
	errUnauthorized      = errors.New("caller does not own order")
	errAlreadyCancelled  = errors.New("order already cancelled")
	errCompletedOrder    = errors.New("order completed")
	errInvalidTransition = errors.New("transition not permitted")
)
