package tick

import (
	"encoding/json"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

// Broadcast queues pkt for delivery to every connected player at the
// end of the current tick. Safe to call from handlers running on the
// tick thread; do not call it from another goroutine since pending is
// unsynchronized within a tick.
func (l *Loop) Broadcast(pkt packets.Packet) {
	l.queueBroadcast(pkt)
}

// BroadcastSystemMessage queues a plain-text system chat line, for
// server-initiated announcements like join/leave messages.
func (l *Loop) BroadcastSystemMessage(text string) {
	content, _ := json.Marshal(ns.NewTextComponent(text))
	l.queueBroadcast(&packets.SystemChatMessage{Content: ns.String(content)})
}
