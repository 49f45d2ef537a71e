package world

import "github.com/google/uuid"

// TicketType distinguishes who is keeping a chunk loaded, per spec §4.6:
// a player's view window, or a system reason (spawn protection, a
// pending world save) that should keep the chunk around regardless of
// any player being nearby.
type TicketType uint8

const (
	TicketPlayer TicketType = iota
	TicketForced
)

// TicketHandle identifies one outstanding ticket so its owner can later
// remove exactly the ticket it added, independent of other owners'
// tickets on the same chunk.
type TicketHandle uuid.UUID

// NewTicketHandle mints a fresh handle.
func NewTicketHandle() TicketHandle {
	return TicketHandle(uuid.New())
}

// Ticket keeps a chunk loaded until removed. Level is unused today (no
// distance-decaying ticket levels) but is kept to match the vanilla
// ticket model the teacher's chunk docs reference, so it is available
// once a levels-based unload radius is needed.
type Ticket struct {
	Type  TicketType
	Owner uuid.UUID
	Level int
}
