package player

import (
	"bytes"
	"time"

	"github.com/tn-lorenz/SteelMC/internal/protoerr"
)

// ChainedMessage is one accepted link in a player's signed chat history:
// enough of the envelope to validate the next message's
// previousSignature reference and to detect replay.
type ChainedMessage struct {
	Index     int32
	Signature []byte
	Timestamp time.Time
}

// MessageChain tracks one player's signed-chat session state: the
// strictly-increasing message index and the signature of the last
// accepted message, which the next message must reference as its
// previousSignature.
type MessageChain struct {
	SessionID         [16]byte
	nextIndex         int32
	lastSignature     []byte
	lastTimestamp     time.Time
	history           []ChainedMessage // bounded ring of recently accepted messages, for last_seen validation
}

// NewMessageChain starts a chain at index 0 with no previous signature.
func NewMessageChain(sessionID [16]byte) *MessageChain {
	return &MessageChain{SessionID: sessionID}
}

// PreviousSignature returns the signature the next message must chain
// from, or nil for the first message in the session.
func (c *MessageChain) PreviousSignature() []byte { return c.lastSignature }

// NextIndex returns the index the next message must carry.
func (c *MessageChain) NextIndex() int32 { return c.nextIndex }

// CheckIndex validates that index is the expected next index in the
// chain, per spec §4.7's strictly-increasing requirement.
func (c *MessageChain) CheckIndex(index int32) error {
	if index != c.nextIndex {
		return protoerr.ErrProtocolViolation
	}
	return nil
}

// Append records an accepted message and advances the chain.
func (c *MessageChain) Append(index int32, signature []byte, timestamp time.Time) {
	c.nextIndex = index + 1
	c.lastSignature = signature
	c.lastTimestamp = timestamp
	c.history = append(c.history, ChainedMessage{Index: index, Signature: signature, Timestamp: timestamp})
	if len(c.history) > 20 {
		c.history = c.history[len(c.history)-20:]
	}
}

// LastTimestamp returns the timestamp of the last accepted message,
// used to reject out-of-order timestamps.
func (c *MessageChain) LastTimestamp() time.Time { return c.lastTimestamp }

// Seen reports whether signature matches an already-accepted message
// still held in the chain's recent history, for replay detection that
// doesn't depend on the timestamp alone (a resend arriving after later
// messages advanced the chain still carries a timestamp that doesn't
// repeat the very last one, but its signature does).
func (c *MessageChain) Seen(signature []byte) bool {
	for _, m := range c.history {
		if bytes.Equal(m.Signature, signature) {
			return true
		}
	}
	return false
}
