package player

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tn-lorenz/SteelMC/internal/auth"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/world"
)

// InboundQueueSize bounds the per-player queue of decoded Play packets
// awaiting the tick thread, per spec's default inbound backpressure limit.
const InboundQueueSize = 256

// GameMode mirrors the vanilla gamemode enum used by Play-state packets.
type GameMode int32

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// Position is a player's continuous world-space pose, distinct from
// netcode.Position (a packed block coordinate).
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// Player is one connected Play-state session's full data model: its
// transport, profile, pose, inventory, loaded-chunk set, and signed
// chat chain.
type Player struct {
	mu sync.Mutex

	Conn    Sender
	Profile ns.GameProfile
	Key     *auth.ProfileKey // nil if the session has no chat-signing key

	Position  Position
	GameMode  GameMode
	Health    float32

	Inventory         *Inventory
	SelectedHotbar    int

	ViewDistance int32
	LoadedChunks map[world.ChunkPos]world.TicketHandle

	// World is the world this player's connection joined. The tick loop
	// sets it once on join; it never changes for the lifetime of the
	// session (no cross-world teleport in scope).
	World *world.World

	// Inbound holds decoded Play-state packets waiting for the tick
	// thread to apply them; the network reader goroutine is the sole
	// writer, the tick thread the sole reader.
	Inbound chan packets.Packet

	Chain *MessageChain

	lastKeepAliveSent time.Time
	lastKeepAliveSeen time.Time
	pendingKeepAlive  int64
	awaitingKeepAlive bool
}

// NewPlayer constructs a player session with a fresh inventory and, if
// key is non-nil, a signed-chat chain for sessionID. The caller sets the
// spawn position.
func NewPlayer(conn Sender, profile ns.GameProfile, key *auth.ProfileKey, viewDistance int32, sessionID [16]byte) *Player {
	p := &Player{
		Conn:         conn,
		Profile:      profile,
		Key:          key,
		GameMode:     GameModeSurvival,
		Health:       20,
		Inventory:    NewInventory(0, PlayerInventorySize),
		ViewDistance: viewDistance,
		LoadedChunks: make(map[world.ChunkPos]world.TicketHandle),
		Inbound:      make(chan packets.Packet, InboundQueueSize),
	}
	if key != nil {
		p.Chain = NewMessageChain(sessionID)
	}
	return p
}

// SetProfileKey installs a verified chat-signing key for the session
// and starts a fresh MessageChain for it. Called once the client's
// ServerboundPlayerSession packet has been checked against Mojang's
// attestation; a session that never sends one keeps Key/Chain nil and
// every chat message it sends is treated as unsigned.
func (p *Player) SetProfileKey(key *auth.ProfileKey, sessionID [16]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Key = key
	p.Chain = NewMessageChain(sessionID)
}

// UUID returns the player's profile UUID as a google/uuid value, used
// as the owner key for chunk tickets and broadcast routing.
func (p *Player) UUID() uuid.UUID {
	return uuid.UUID(p.Profile.UUID)
}

// SetPosition updates the player's authoritative pose.
func (p *Player) SetPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Position = pos
}

// UpdatePosition applies a SetPlayerPosition-style movement update,
// which carries no rotation, without clobbering the player's last known
// yaw/pitch.
func (p *Player) UpdatePosition(x, y, z float64, onGround bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Position.X, p.Position.Y, p.Position.Z = x, y, z
	p.Position.OnGround = onGround
}

// ChunkPos returns the chunk the player currently occupies.
func (p *Player) ChunkPos() world.ChunkPos {
	p.mu.Lock()
	defer p.mu.Unlock()
	return world.ChunkPosOf(ns.NewPosition(int(p.Position.X), int(p.Position.Y), int(p.Position.Z)))
}

// NeedsKeepAlive reports whether it is time to send a new keep-alive
// challenge: no challenge outstanding, and interval has elapsed since
// the last one was sent (or since the session started, if none ever
// was).
func (p *Player) NeedsKeepAlive(now time.Time, interval time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.awaitingKeepAlive && now.Sub(p.lastKeepAliveSent) >= interval
}

// MarkKeepAliveSent records a new keep-alive challenge and starts its
// response timer.
func (p *Player) MarkKeepAliveSent(id int64, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingKeepAlive = id
	p.lastKeepAliveSent = now
	p.awaitingKeepAlive = true
}

// AcknowledgeKeepAlive checks id against the outstanding challenge and,
// on a match, clears the awaiting flag and records when the reply arrived.
func (p *Player) AcknowledgeKeepAlive(id int64, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.awaitingKeepAlive || id != p.pendingKeepAlive {
		return false
	}
	p.awaitingKeepAlive = false
	p.lastKeepAliveSeen = now
	return true
}

// KeepAliveOverdue reports whether the outstanding keep-alive challenge
// has gone unanswered for longer than timeout.
func (p *Player) KeepAliveOverdue(now time.Time, timeout time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awaitingKeepAlive && now.Sub(p.lastKeepAliveSent) > timeout
}

// DrainInbound pops every packet currently queued without blocking, in
// arrival order, for the tick thread to apply to world state.
func (p *Player) DrainInbound() []packets.Packet {
	var out []packets.Packet
	for {
		select {
		case pkt := <-p.Inbound:
			out = append(out, pkt)
		default:
			return out
		}
	}
}
