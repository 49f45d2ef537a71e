// Package player implements the per-connection player data model (C7):
// position/game state, the slot inventory with state-id desync
// detection, and the signed-chat MessageChain each session maintains.
package player

import "github.com/tn-lorenz/SteelMC/internal/packets"

// Sender is the narrow slice of internal/protocol.Connection the player
// model needs. Keeping it as an interface here (rather than importing
// internal/protocol directly) lets internal/protocol depend on
// internal/player without creating an import cycle back.
type Sender interface {
	SendPacket(pkt packets.Packet) error
	// SendEncoded writes an already-framed, already-compressed packet
	// body to this connection. The tick loop uses it for broadcasts so
	// a packet shared by many recipients is serialized and compressed
	// exactly once.
	SendEncoded(frame []byte) error
	Disconnect(reason string) error
	RemoteAddr() string
}
