// Package chat implements the signed chat validation pipeline (C7):
// timestamp/replay checks, RSA signature verification against a
// player's profile key, and the broadcast decision (signed relay,
// downgraded system message, or drop) spec §4.7 describes.
package chat

import "time"

// Policy controls what happens to a chat message that fails signature
// verification.
type Policy string

const (
	// PolicyStrict drops messages that fail verification outright.
	PolicyStrict Policy = "strict"
	// PolicyDowngrade relays a failed message as an unsigned system
	// chat line instead of dropping it.
	PolicyDowngrade Policy = "downgrade"
)

// Config holds the tunables spec §4.7 and SPEC_FULL.md's Open Question
// resolution made config-overridable.
type Config struct {
	GracePast   time.Duration
	GraceFuture time.Duration
	Policy      Policy
}
