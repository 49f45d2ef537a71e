package world

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChunkMap(t *testing.T) *ChunkMap {
	t.Helper()
	gen := NewFlatGenerator(4, -64, 3)
	return NewChunkMap(context.Background(), gen, 4, 50*time.Millisecond, zap.NewNop())
}

func drainUntilReady(t *testing.T, m *ChunkMap, pos ChunkPos) *Chunk {
	t.Helper()
	require.Eventually(t, func() bool {
		m.DrainReady()
		_, ok := m.Get(pos)
		return ok
	}, time.Second, time.Millisecond)
	c, _ := m.Get(pos)
	return c
}

func TestChunkMapLoadsOnFirstTicket(t *testing.T) {
	m := newTestChunkMap(t)
	pos := ChunkPos{X: 0, Z: 0}
	owner := uuid.New()

	handle := m.AddTicket(pos, owner, TicketPlayer)
	c := drainUntilReady(t, m, pos)
	require.NotNil(t, c)

	m.RemoveTicket(pos, handle)
	slot := m.slots[pos]
	require.Equal(t, SlotUnloading, slot.State)
}

func TestChunkMapUnloadsAfterGrace(t *testing.T) {
	m := newTestChunkMap(t)
	pos := ChunkPos{X: 1, Z: 1}
	owner := uuid.New()

	handle := m.AddTicket(pos, owner, TicketPlayer)
	drainUntilReady(t, m, pos)
	m.RemoveTicket(pos, handle)

	m.Tick(time.Now())
	_, ok := m.Get(pos)
	require.True(t, ok, "must not unload before grace elapses")

	m.Tick(time.Now().Add(time.Second))
	_, ok = m.Get(pos)
	require.False(t, ok)
}

func TestChunkMapReaddingTicketCancelsUnload(t *testing.T) {
	m := newTestChunkMap(t)
	pos := ChunkPos{X: 2, Z: 2}
	owner := uuid.New()

	h1 := m.AddTicket(pos, owner, TicketPlayer)
	drainUntilReady(t, m, pos)
	m.RemoveTicket(pos, h1)
	require.Equal(t, SlotUnloading, m.slots[pos].State)

	m.AddTicket(pos, owner, TicketPlayer)
	require.Equal(t, SlotReady, m.slots[pos].State)
}

func TestViewDiff(t *testing.T) {
	old := []ChunkPos{{X: 0, Z: 0}, {X: 1, Z: 0}}
	next := []ChunkPos{{X: 1, Z: 0}, {X: 2, Z: 0}}
	entering, leaving := ViewDiff(old, next)
	require.Equal(t, []ChunkPos{{X: 2, Z: 0}}, entering)
	require.Equal(t, []ChunkPos{{X: 0, Z: 0}}, leaving)
}

func TestChunksInViewOrderedNearestFirst(t *testing.T) {
	chunks := ChunksInView(ChunkPos{X: 0, Z: 0}, 2)
	require.Equal(t, ChunkPos{X: 0, Z: 0}, chunks[0])
	require.Len(t, chunks, 25)
}
