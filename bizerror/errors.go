package bizerror

import "errors"

var (
	ErrTooManyRequests  = errors.New("too many requests")
	ErrRequestInFlight  = errors.New("request with the same idempotency key is in flight")
	ErrIdempotencyReuse = errors.New("idempotency key was used for a different request")
)
