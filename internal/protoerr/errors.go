// Package protoerr holds the sentinel errors shared across the transport,
// protocol, and auth packages so callers can classify failures with
// errors.Is instead of string matching.
package protoerr

import "errors"

var (
	// ErrMalformed indicates a frame or packet body could not be decoded
	// per the wire format (truncated, bad length, invalid VarInt, etc).
	ErrMalformed = errors.New("protocol: malformed data")
	// ErrProtocolViolation indicates a structurally valid packet was
	// received in a state or order the protocol forbids.
	ErrProtocolViolation = errors.New("protocol: violation")
	// ErrAuthFailed indicates the Mojang session server call itself
	// failed (network error, malformed response).
	ErrAuthFailed = errors.New("auth: session server call failed")
	// ErrAuthRejected indicates the session server reached a verdict
	// and the player failed it (hasJoined 204, bad signature, expired key).
	ErrAuthRejected = errors.New("auth: rejected")
	// ErrDecrypt indicates decryption of an encrypted stream failed or
	// produced an implausible result (CFB8 streams never hard-fail, so
	// this is mostly raised by length/desync checks downstream).
	ErrDecrypt = errors.New("transport: decrypt failure")
	// ErrFrameTooLarge indicates a frame exceeded the 2^21-1 byte ceiling,
	// either in its declared compressed length or its decompressed length.
	ErrFrameTooLarge = errors.New("transport: frame exceeds maximum length")
	// ErrBadCompressedThreshold indicates a frame claimed to be
	// compressed (dataLength > 0) while shorter than the configured
	// compression threshold, which the protocol forbids.
	ErrBadCompressedThreshold = errors.New("transport: compressed frame below threshold")
	// ErrSlowConsumer indicates a connection's outbound queue was
	// already full when a send was attempted; the send is refused
	// rather than waiting for room.
	ErrSlowConsumer = errors.New("transport: slow consumer")
	// ErrTimeout indicates a per-state wall timeout elapsed without the
	// expected packet arriving.
	ErrTimeout = errors.New("protocol: state timeout")
	// ErrDisconnected indicates the peer closed the connection or the
	// server closed it deliberately.
	ErrDisconnected = errors.New("protocol: disconnected")
)
