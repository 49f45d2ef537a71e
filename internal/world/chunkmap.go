package world

import (
	"context"
	"time"

	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// SlotState is the lifecycle stage of a ChunkSlot, per spec §4.6:
// generating, live and subscribable, or counting down to removal after
// its last ticket was dropped.
type SlotState uint8

const (
	SlotLoading SlotState = iota
	SlotReady
	SlotUnloading
)

// ChunkSlot owns one chunk's generation/residency state: its tickets,
// its subscriber set, and (once Ready) the chunk itself.
type ChunkSlot struct {
	Pos         ChunkPos
	State       SlotState
	Chunk       *Chunk
	Tickets     map[TicketHandle]Ticket
	Subscribers map[uuid.UUID]struct{}
	UnloadAt    time.Time
}

func newChunkSlot(pos ChunkPos) *ChunkSlot {
	return &ChunkSlot{
		Pos:         pos,
		State:       SlotLoading,
		Tickets:     make(map[TicketHandle]Ticket),
		Subscribers: make(map[uuid.UUID]struct{}),
	}
}

// ReadyChunk is a just-completed generation result handed from the
// chunk pool to the tick thread.
type ReadyChunk struct {
	Pos   ChunkPos
	Chunk *Chunk
	Err   error
}

// ChunkMap owns every loaded/loading chunk in one world: ticket
// accounting, the bounded generation pool, and the per-tick dirty-chunk
// queue. It takes no lock: every method, Get included, is called from
// the tick thread only, and none is safe to call concurrently with it.
type ChunkMap struct {
	generator   Generator
	log         *zap.Logger
	unloadGrace time.Duration

	slots map[ChunkPos]*ChunkSlot

	ready chan ReadyChunk
	pool  *errgroup.Group
	poolCtx context.Context
	sem   *semaphore.Weighted

	dirty      *deque.Deque[ChunkPos]
	dirtySet   map[ChunkPos]struct{}
}

// NewChunkMap creates a chunk map backed by generator, running up to
// poolConcurrency generation tasks at once, unloading empty-ticket
// chunks unloadGrace after their last ticket is removed.
func NewChunkMap(ctx context.Context, generator Generator, poolConcurrency int64, unloadGrace time.Duration, log *zap.Logger) *ChunkMap {
	group, groupCtx := errgroup.WithContext(ctx)
	return &ChunkMap{
		generator:   generator,
		log:         log,
		unloadGrace: unloadGrace,
		slots:       make(map[ChunkPos]*ChunkSlot),
		ready:       make(chan ReadyChunk, 256),
		pool:        group,
		poolCtx:     groupCtx,
		sem:         semaphore.NewWeighted(poolConcurrency),
		dirty:       new(deque.Deque[ChunkPos]),
		dirtySet:    make(map[ChunkPos]struct{}),
	}
}

// AddTicket registers a ticket on pos, creating and scheduling
// generation for the slot if it does not already exist, and canceling
// any pending unload grace period.
func (m *ChunkMap) AddTicket(pos ChunkPos, owner uuid.UUID, ttype TicketType) TicketHandle {
	handle := NewTicketHandle()
	slot, ok := m.slots[pos]
	if !ok {
		slot = newChunkSlot(pos)
		m.slots[pos] = slot
		m.schedule(pos)
	}
	slot.Tickets[handle] = Ticket{Type: ttype, Owner: owner}
	if slot.State == SlotUnloading {
		slot.State = SlotReady
		slot.UnloadAt = time.Time{}
	}
	return handle
}

// RemoveTicket drops handle from pos's ticket set. Once a Ready slot's
// ticket set is empty it begins its unload grace period; a Loading slot
// with no tickets is left to finish generation and then unloaded
// immediately in DrainReady.
func (m *ChunkMap) RemoveTicket(pos ChunkPos, handle TicketHandle) {
	slot, ok := m.slots[pos]
	if !ok {
		return
	}
	delete(slot.Tickets, handle)
	if len(slot.Tickets) > 0 {
		return
	}
	if slot.State == SlotReady {
		slot.State = SlotUnloading
		slot.UnloadAt = time.Now().Add(m.unloadGrace)
	}
}

// schedule submits a generation task to the bounded pool. The task
// acquires a semaphore slot, generates the chunk off the tick thread,
// and posts the result to the ready channel, blocking until there is
// room or the pool's context is canceled (a full channel means the tick
// thread has stopped calling DrainReady).
func (m *ChunkMap) schedule(pos ChunkPos) {
	m.pool.Go(func() error {
		if err := m.sem.Acquire(m.poolCtx, 1); err != nil {
			return nil
		}
		defer m.sem.Release(1)

		chunk, err := m.generator.Generate(pos)
		select {
		case m.ready <- ReadyChunk{Pos: pos, Chunk: chunk, Err: err}:
		case <-m.poolCtx.Done():
		}
		return nil
	})
}

// DrainReady non-blockingly pulls every completed generation result off
// the ready queue, promotes its slot to Ready (or drops it immediately
// if its ticket set emptied while it was generating), and returns the
// chunks that are now live. Call Subscribers(pos) for each to find who
// to send the initial LevelChunkWithLight packet to.
func (m *ChunkMap) DrainReady() []ReadyChunk {
	var out []ReadyChunk
	for {
		select {
		case rc := <-m.ready:
			slot, ok := m.slots[rc.Pos]
			if !ok {
				continue
			}
			if rc.Err != nil {
				m.log.Warn("chunk generation failed", zap.Int32("x", rc.Pos.X), zap.Int32("z", rc.Pos.Z), zap.Error(rc.Err))
				delete(m.slots, rc.Pos)
				continue
			}
			slot.Chunk = rc.Chunk
			if len(slot.Tickets) == 0 {
				delete(m.slots, rc.Pos)
				continue
			}
			slot.State = SlotReady
			out = append(out, rc)
		default:
			return out
		}
	}
}

// Get returns the chunk at pos if its slot is Ready.
func (m *ChunkMap) Get(pos ChunkPos) (*Chunk, bool) {
	slot, ok := m.slots[pos]
	if !ok || slot.State != SlotReady {
		return nil, false
	}
	return slot.Chunk, true
}

// Subscribe adds player to pos's subscriber set, returning the chunk
// immediately if it is already Ready.
func (m *ChunkMap) Subscribe(pos ChunkPos, player uuid.UUID) (*Chunk, bool) {
	slot, ok := m.slots[pos]
	if !ok {
		return nil, false
	}
	slot.Subscribers[player] = struct{}{}
	if slot.State == SlotReady {
		return slot.Chunk, true
	}
	return nil, false
}

// Unsubscribe removes player from pos's subscriber set.
func (m *ChunkMap) Unsubscribe(pos ChunkPos, player uuid.UUID) {
	if slot, ok := m.slots[pos]; ok {
		delete(slot.Subscribers, player)
	}
}

// Subscribers returns the player IDs currently subscribed to pos, for
// fanning out a newly-ready or freshly-dirtied chunk.
func (m *ChunkMap) Subscribers(pos ChunkPos) []uuid.UUID {
	slot, ok := m.slots[pos]
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(slot.Subscribers))
	for id := range slot.Subscribers {
		out = append(out, id)
	}
	return out
}

// MarkDirty enqueues pos for the next DrainDirty call, deduplicating
// repeated marks within the same tick.
func (m *ChunkMap) MarkDirty(pos ChunkPos) {
	if _, ok := m.dirtySet[pos]; ok {
		return
	}
	m.dirtySet[pos] = struct{}{}
	m.dirty.PushBack(pos)
}

// DrainDirty returns every chunk position marked dirty since the last
// call and clears the dirty set.
func (m *ChunkMap) DrainDirty() []ChunkPos {
	n := m.dirty.Len()
	if n == 0 {
		return nil
	}
	out := make([]ChunkPos, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, m.dirty.PopFront())
	}
	m.dirtySet = make(map[ChunkPos]struct{})
	return out
}

// Tick expires unloading slots whose grace period has elapsed.
func (m *ChunkMap) Tick(now time.Time) {
	for pos, slot := range m.slots {
		if slot.State == SlotUnloading && !slot.UnloadAt.IsZero() && !now.Before(slot.UnloadAt) {
			delete(m.slots, pos)
		}
	}
}

// Shutdown waits for outstanding generation tasks to finish or ctx to
// expire.
func (m *ChunkMap) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- m.pool.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SlotCount reports the number of tracked slots (loading + ready +
// unloading), exposed for the loaded-chunk-count metric.
func (m *ChunkMap) SlotCount() int { return len(m.slots) }
