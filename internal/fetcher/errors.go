package fetcher

import "errors"

var (
	// ErrInvalidKey is returned before any network call when a key is not a
	// base58 string decoding to 32 bytes.
	ErrInvalidKey = errors.New("invalid account key")
	// ErrTransport is returned when every configured endpoint failed.
	ErrTransport = errors.New("transport error")
	// ErrDecodeMismatch is attached to a Raw result whose bytes are not an SPL mint.
	ErrDecodeMismatch = errors.New("not decodable as a mint")
)
