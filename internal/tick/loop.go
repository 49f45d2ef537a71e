package tick

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/chat"
	"github.com/tn-lorenz/SteelMC/internal/command"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/player"
	"github.com/tn-lorenz/SteelMC/internal/world"
)

// Rate is the nominal tick period: 20 Hz.
const Rate = 50 * time.Millisecond

// maxSprint bounds consecutive back-to-back ticks run without sleeping
// when the loop falls behind, per spec's sprint/skip pacing.
const maxSprint = 5

const tpsWindow = 100

// playerState is the tick loop's bookkeeping for one connected player:
// which world they're in and which chunks their view window currently
// holds a ticket/subscription on.
type playerState struct {
	player     *player.Player
	world      *world.World
	viewChunks []world.ChunkPos
}

// Loop is the fixed-rate world/player tick loop. All world and player
// mutation happens on the goroutine running Run; every other method is
// safe to call concurrently (it only touches the players/worlds index
// under mu) but the mutation it triggers is deferred to the next tick
// via the inbound queues, except AddPlayer/RemovePlayer which mutate
// the index immediately since join/leave isn't represented as a
// packet.
type Loop struct {
	mu      sync.Mutex
	players map[uuid.UUID]*playerState
	worlds  map[string]*world.World

	commands *command.Tree
	chatCfg  chat.Config

	compressionThreshold int
	keepAliveInterval    time.Duration
	keepAliveTimeout     time.Duration

	log *zap.Logger

	pending []packets.Packet

	tickHistory    [tpsWindow]time.Duration
	tickHistoryLen int
	tickHistoryPos int
	tickSum        time.Duration

	skipCount atomic.Int64

	nextKeepAliveID int64
}

// NewLoop builds an idle loop; call AddWorld before Run starts ticking
// it.
func NewLoop(commands *command.Tree, chatCfg chat.Config, compressionThreshold int, keepAliveInterval, keepAliveTimeout time.Duration, log *zap.Logger) *Loop {
	return &Loop{
		players:              make(map[uuid.UUID]*playerState),
		worlds:               make(map[string]*world.World),
		commands:             commands,
		chatCfg:              chatCfg,
		compressionThreshold: compressionThreshold,
		keepAliveInterval:    keepAliveInterval,
		keepAliveTimeout:     keepAliveTimeout,
		log:                  log,
	}
}

// AddWorld registers w so its systems are ticked and its chunks drained
// each tick.
func (l *Loop) AddWorld(w *world.World) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.worlds[w.Name] = w
}

// AddPlayer registers a newly-joined player in world w. The player's
// initial view window is streamed starting on the next tick.
func (l *Loop) AddPlayer(p *player.Player, w *world.World) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.World = w
	l.players[p.UUID()] = &playerState{player: p, world: w}
}

// RemovePlayer drops a disconnected player's tickets/subscriptions and
// removes it from the tick index.
func (l *Loop) RemovePlayer(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removePlayerLocked(id)
}

// removePlayerLocked is RemovePlayer's body for callers that already
// hold mu (the tick loop itself, on a keep-alive timeout).
func (l *Loop) removePlayerLocked(id uuid.UUID) {
	st, ok := l.players[id]
	if !ok {
		return
	}
	for _, pos := range st.viewChunks {
		if handle, ok := st.player.LoadedChunks[pos]; ok {
			st.world.Chunks.RemoveTicket(pos, handle)
		}
		st.world.Chunks.Unsubscribe(pos, id)
	}
	delete(l.players, id)
}

// PlayerCount reports how many players the loop currently tracks.
func (l *Loop) PlayerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.players)
}

// PlayerNames reports the usernames of every connected player, for the
// "list" command and the console.
func (l *Loop) PlayerNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.players))
	for _, st := range l.players {
		names = append(names, string(st.player.Profile.Username))
	}
	return names
}

// DisconnectAll sends every connected player a PlayDisconnect with
// reason and drops them from the tick index, for the orchestrator's
// shutdown sequence.
func (l *Loop) DisconnectAll(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, st := range l.players {
		_ = st.player.Conn.Disconnect(reason)
		l.removePlayerLocked(id)
	}
}

// Run drives the fixed-rate loop until ctx is canceled. Each iteration
// runs tick once; if a tick overruns Rate the loop runs the next one
// immediately instead of sleeping ("sprint"), up to maxSprint times in
// a row, after which it logs and gives up catching up ("skip") before
// resuming the normal sleep cadence.
func (l *Loop) Run(ctx context.Context) error {
	sprint := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		l.tick(start)
		elapsed := time.Since(start)
		l.recordTick(elapsed)

		if elapsed >= Rate {
			sprint++
			if sprint >= maxSprint {
				l.log.Warn("tick loop behind schedule, skipping catch-up",
					zap.Duration("elapsed", elapsed), zap.Int("sprint_ticks", sprint))
				l.skipCount.Inc()
				sprint = 0
			}
			continue
		}
		sprint = 0

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(Rate - elapsed):
		}
	}
}

// tick runs one iteration of the five ordered phases: drain inbound,
// tick players, tick world systems, drain dirty chunks, flush
// broadcasts.
func (l *Loop) tick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = l.pending[:0]

	for _, st := range l.players {
		for _, pkt := range st.player.DrainInbound() {
			l.handlePacket(st, pkt, now)
		}
	}

	for _, st := range l.players {
		l.tickPlayer(st, now)
	}

	for _, w := range l.worlds {
		w.Tick(now)
	}

	for _, w := range l.worlds {
		l.drainReadyChunks(w)
		l.drainDirtyChunks(w)
	}

	l.flushBroadcasts()
}

// queueBroadcast defers pkt to be sent to every connected player at the
// end of the current tick.
func (l *Loop) queueBroadcast(pkt packets.Packet) {
	l.pending = append(l.pending, pkt)
}

func (l *Loop) recordTick(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tickHistoryLen == tpsWindow {
		l.tickSum -= l.tickHistory[l.tickHistoryPos]
	} else {
		l.tickHistoryLen++
	}
	l.tickHistory[l.tickHistoryPos] = d
	l.tickSum += d
	l.tickHistoryPos = (l.tickHistoryPos + 1) % tpsWindow
}

// TPS reports the moving average over the last 100 ticks (or fewer, at
// startup), capped at 20 since a loop running ahead of schedule still
// means 20 ticks happened per second of wall clock.
func (l *Loop) TPS() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tickHistoryLen == 0 {
		return 20
	}
	avg := l.tickSum / time.Duration(l.tickHistoryLen)
	if avg <= 0 {
		return 20
	}
	tps := float64(time.Second) / float64(avg)
	if tps > 20 {
		return 20
	}
	return tps
}

// SkipCount reports how many times the loop has given up on sprint
// catch-up and dropped ticks, for the orchestrator's metrics endpoint.
func (l *Loop) SkipCount() int64 {
	return l.skipCount.Load()
}

// LoadedChunkCount sums the resident chunk slot count across every
// world the loop ticks.
func (l *Loop) LoadedChunkCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, w := range l.worlds {
		total += w.Chunks.SlotCount()
	}
	return total
}
