package driven

import "errors"

var (
	// ErrConfigMissing is returned when no access token has been stored. Run
	// the login command to create one.
	ErrConfigMissing = errors.New("no stored credential: run the login command first")

	// ErrUnauthenticated is returned when the remote API rejects the token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTransport is returned on network failure or a non-2xx response.
	ErrTransport = errors.New("transport error")

	// ErrDecode is returned when a response body does not match the expected schema.
	ErrDecode = errors.New("decode error")

	// ErrCacheMiss is returned by CacheStore loads when no fresh snapshot exists.
	// Callers treat it as a signal to refresh, never as a failure.
	ErrCacheMiss = errors.New("cache miss")

	// ErrPersist is returned when the credential or a cache snapshot cannot be written.
	ErrPersist = errors.New("persist failure")
)
