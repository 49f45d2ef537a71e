package tick

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/auth"
	"github.com/tn-lorenz/SteelMC/internal/chat"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/player"
)

// playerCommandSource adapts a player to command.Source so the command
// tree can reply to whoever issued a "/"-prefixed chat message.
type playerCommandSource struct {
	player *player.Player
}

func (s playerCommandSource) Reply(message string) {
	content, _ := json.Marshal(ns.NewTextComponent(message))
	_ = s.player.Conn.SendPacket(&packets.SystemChatMessage{Content: ns.String(content)})
}

func (s playerCommandSource) Name() string { return string(s.player.Profile.Username) }

// handlePacket applies one decoded Play-state packet to world/player
// state. Unrecognized packet types are ignored: the protocol layer only
// queues the subset the tick loop knows how to interpret.
func (l *Loop) handlePacket(st *playerState, pkt packets.Packet, now time.Time) {
	switch p := pkt.(type) {
	case *packets.ServerboundKeepAlive:
		if !st.player.AcknowledgeKeepAlive(int64(p.ID_), now) {
			l.log.Debug("unsolicited or stale keep-alive response", zap.String("player", string(st.player.Profile.Username)))
		}

	case *packets.SetPlayerPosition:
		st.player.UpdatePosition(float64(p.X), float64(p.Y), float64(p.Z), bool(p.OnGround))

	case *packets.ChatMessage:
		l.handleChat(st, p, now)

	case *packets.ContainerClick:
		l.handleContainerClick(st, p)

	case *packets.ServerboundPlayerSession:
		l.handlePlayerSession(st, p)

	default:
	}
}

// handlePlayerSession verifies a client's chat-signing key against
// Mojang's attestation and, if it checks out, installs it on the
// player and starts a fresh MessageChain keyed to the session ID the
// packet carries. A session that fails verification keeps whatever key
// state it had (none, on the only path that reaches Play today), so
// its chat continues to be treated as unsigned.
func (l *Loop) handlePlayerSession(st *playerState, p *packets.ServerboundPlayerSession) {
	key, err := auth.VerifyProfileKey(int64(p.ExpiresAt), p.PublicKey, p.KeySignature)
	if err != nil {
		l.log.Debug("rejected player session key", zap.String("player", string(st.player.Profile.Username)), zap.Error(err))
		return
	}
	st.player.SetProfileKey(key, [16]byte(p.SessionID))
}

func (l *Loop) handleChat(st *playerState, p *packets.ChatMessage, now time.Time) {
	text := string(p.Message)
	if strings.HasPrefix(text, "/") {
		if err := l.commands.Dispatch(playerCommandSource{player: st.player}, strings.TrimPrefix(text, "/")); err != nil {
			content, _ := json.Marshal(ns.NewTextComponent("Unknown or incomplete command"))
			_ = st.player.Conn.SendPacket(&packets.SystemChatMessage{Content: ns.String(content)})
		}
		return
	}

	decision := chat.Validate(st.player, p, l.chatCfg, now)
	if decision.Err != nil {
		l.log.Debug("chat message rejected", zap.String("player", string(st.player.Profile.Username)), zap.Error(decision.Err))
	}
	if sysMsg, ok := decision.Broadcast.(*packets.SystemChatMessage); ok && decision.Err != nil {
		var tc ns.TextComponent
		if err := json.Unmarshal([]byte(sysMsg.Content), &tc); err == nil {
			l.log.Info("downgraded chat message", zap.String("player", string(st.player.Profile.Username)), zap.String("line", tc.ColorCodes()))
		}
	}
	if decision.Broadcast != nil {
		l.queueBroadcast(decision.Broadcast)
	}
}

func (l *Loop) handleContainerClick(st *playerState, p *packets.ContainerClick) {
	if !st.player.Inventory.MatchesState(int32(p.StateID)) {
		_ = st.player.Conn.SendPacket(st.player.Inventory.ToContainerSetContent(ns.EmptySlot()))
		return
	}
	st.player.Inventory.ApplyChangedSlots(p.ChangedSlots)
}

// tickPlayer advances one player's per-tick state: view-window
// streaming and keep-alive scheduling/timeout.
func (l *Loop) tickPlayer(st *playerState, now time.Time) {
	l.streamChunks(st)

	if st.player.KeepAliveOverdue(now, l.keepAliveTimeout) {
		_ = st.player.Conn.Disconnect("Timed out")
		l.removePlayerLocked(st.player.UUID())
		return
	}

	if st.player.NeedsKeepAlive(now, l.keepAliveInterval) {
		l.nextKeepAliveID++
		id := l.nextKeepAliveID
		st.player.MarkKeepAliveSent(id, now)
		_ = st.player.Conn.SendPacket(&packets.ClientboundKeepAlive{ID_: ns.Int64(id)})
	}
}
