package tick

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/world"
)

// streamChunks recomputes st's view window against its current chunk
// position, removing tickets/subscriptions for chunks that left the
// window and adding them for chunks that entered it, nearest first.
func (l *Loop) streamChunks(st *playerState) {
	pos := st.player.ChunkPos()
	desired := world.ChunksInView(pos, st.player.ViewDistance)
	entering, leaving := world.ViewDiff(st.viewChunks, desired)
	id := st.player.UUID()

	for _, p := range leaving {
		if handle, ok := st.player.LoadedChunks[p]; ok {
			st.world.Chunks.RemoveTicket(p, handle)
			delete(st.player.LoadedChunks, p)
		}
		st.world.Chunks.Unsubscribe(p, id)
	}

	for _, p := range entering {
		handle := st.world.Chunks.AddTicket(p, id, world.TicketPlayer)
		st.player.LoadedChunks[p] = handle
		if chunk, ready := st.world.Chunks.Subscribe(p, id); ready {
			l.sendChunk(st, chunk)
		}
	}

	st.viewChunks = desired
}

// sendChunk encodes and sends the full chunk data for one newly-visible
// chunk to its player.
func (l *Loop) sendChunk(st *playerState, chunk *world.Chunk) {
	pkt, err := chunk.ToPacket(st.world.Generator.SurfaceY())
	if err != nil {
		l.log.Error("encode chunk", zap.Error(err))
		return
	}
	if err := st.player.Conn.SendPacket(pkt); err != nil {
		l.log.Debug("send chunk failed, dropping player", zap.Error(err))
		l.removePlayerLocked(st.player.UUID())
	}
}

// drainReadyChunks sends a just-finished chunk to every player already
// subscribed to it (the view window advanced while it was generating).
func (l *Loop) drainReadyChunks(w *world.World) {
	for _, rc := range w.Chunks.DrainReady() {
		subs := w.Chunks.Subscribers(rc.Pos)
		if len(subs) == 0 {
			continue
		}
		l.sendToSubscribers(w, rc.Pos, rc.Chunk, subs)
	}
}

// drainDirtyChunks resends a chunk's full state to its subscribers
// whenever it changed this tick. Vanilla instead emits an incremental
// ClientboundBlockUpdate/ClientboundSectionBlocksUpdate delta; that
// packet pair isn't in the protocol surface this server implements, so
// a dirty chunk is resent in full, which is correct but wastes
// bandwidth relative to vanilla.
func (l *Loop) drainDirtyChunks(w *world.World) {
	for _, pos := range w.Chunks.DrainDirty() {
		chunk, ok := w.Chunks.Get(pos)
		if !ok {
			continue
		}
		subs := w.Chunks.Subscribers(pos)
		if len(subs) == 0 {
			continue
		}
		l.sendToSubscribers(w, pos, chunk, subs)
	}
}

// sendToSubscribers encodes chunk once and re-references the encoded
// bytes for every subscriber's connection.
func (l *Loop) sendToSubscribers(w *world.World, pos world.ChunkPos, chunk *world.Chunk, subs []uuid.UUID) {
	pkt, err := chunk.ToPacket(w.Generator.SurfaceY())
	if err != nil {
		l.log.Error("encode chunk", zap.Int32("x", pos.X), zap.Int32("z", pos.Z), zap.Error(err))
		return
	}
	wire, err := packets.ToWire(pkt)
	if err != nil {
		l.log.Error("frame chunk packet", zap.Error(err))
		return
	}
	frame, err := wire.Bytes(l.compressionThreshold)
	if err != nil {
		l.log.Error("serialize chunk packet", zap.Error(err))
		return
	}
	for _, id := range subs {
		st, ok := l.players[id]
		if !ok {
			continue
		}
		if err := st.player.Conn.SendEncoded(frame); err != nil {
			l.log.Debug("send chunk failed, dropping player", zap.Error(err))
			l.removePlayerLocked(id)
		}
	}
}

// flushBroadcasts encodes each pending broadcast once and sends it to
// every currently-connected player, per the end-of-tick fan-out phase.
func (l *Loop) flushBroadcasts() {
	for _, pkt := range l.pending {
		wire, err := packets.ToWire(pkt)
		if err != nil {
			l.log.Error("frame broadcast packet", zap.Error(err))
			continue
		}
		frame, err := wire.Bytes(l.compressionThreshold)
		if err != nil {
			l.log.Error("serialize broadcast packet", zap.Error(err))
			continue
		}
		for id, st := range l.players {
			if err := st.player.Conn.SendEncoded(frame); err != nil {
				l.log.Debug("broadcast send failed, dropping player", zap.Error(err))
				l.removePlayerLocked(id)
			}
		}
	}
	l.pending = l.pending[:0]
}
