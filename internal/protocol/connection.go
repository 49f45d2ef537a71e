package protocol

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/auth"
	"github.com/tn-lorenz/SteelMC/internal/command"
	"github.com/tn-lorenz/SteelMC/internal/config"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/player"
	"github.com/tn-lorenz/SteelMC/internal/protoerr"
	"github.com/tn-lorenz/SteelMC/internal/tick"
	"github.com/tn-lorenz/SteelMC/internal/transport"
	"github.com/tn-lorenz/SteelMC/internal/world"
)

// outboundQueueSize bounds a connection's pending-write queue once Play
// starts routing sends through it, mirroring player.InboundQueueSize's
// backpressure limit on the read side.
const outboundQueueSize = 256

// outboundItem is one queued send: either a packet to encode or a
// pre-encoded frame to write as-is (a tick-loop broadcast), never both.
type outboundItem struct {
	pkt   packets.Packet
	frame []byte
}

// StatusProvider is the thin slice of the orchestrator a Connection
// needs to answer a server list ping, kept as an interface so this
// package doesn't import internal/server.
type StatusProvider interface {
	MOTD() string
	PlayerCount() int
	MaxPlayers() int
}

var nextEntityID atomic.Int32

// Connection drives one client's Handshake -> (Status | Login) ->
// Configuration -> Play sequence over a single transport.Pipeline.
type Connection struct {
	pipeline *transport.Pipeline
	table    *packets.Table
	state    packets.State

	cfg           *config.Config
	serverKey     *rsa.PrivateKey
	serverKeyDER  []byte
	sessionClient *auth.SessionServerClient
	status        StatusProvider

	world    *world.World
	loop     *tick.Loop
	commands *command.Tree

	log *zap.Logger

	player *player.Player

	// outbound decouples Play-state sends from the tick goroutine: the
	// tick loop never blocks on a socket write, it enqueues here and a
	// dedicated writer goroutine drains it onto the pipeline. A full
	// queue means this connection can't keep up and SendPacket/
	// SendEncoded return ErrSlowConsumer instead of blocking everyone
	// else's tick. Pre-Play states write through c.pipeline directly
	// and never touch this queue.
	outbound    chan outboundItem
	writerStop  chan struct{}
	stopOnce    sync.Once
	writeFailed atomic.Bool
}

// NewConnection wraps conn in a Pipeline and prepares it to run the
// state machine. publicKeyDER is the server RSA key's X.509 SPKI
// encoding, precomputed once at startup by the orchestrator.
func NewConnection(conn net.Conn, table *packets.Table, serverKey *rsa.PrivateKey, serverKeyDER []byte, sessionClient *auth.SessionServerClient, cfg *config.Config, status StatusProvider, w *world.World, loop *tick.Loop, commands *command.Tree, log *zap.Logger) *Connection {
	c := &Connection{
		pipeline:      transport.NewPipeline(conn),
		table:         table,
		state:         packets.StateHandshake,
		cfg:           cfg,
		serverKey:     serverKey,
		serverKeyDER:  serverKeyDER,
		sessionClient: sessionClient,
		status:        status,
		world:         w,
		loop:          loop,
		commands:      commands,
		log:           log.With(zap.String("remote", conn.RemoteAddr().String())),
		outbound:      make(chan outboundItem, outboundQueueSize),
		writerStop:    make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// writeLoop is the only goroutine that calls c.pipeline.WriteFrame or
// WriteRaw once the player is registered with the tick loop (earlier
// frames are written directly by Serve's goroutine): every SendPacket/
// SendEncoded call lands here off the tick thread, so
// one stalled socket only ever blocks its own writer, never the loop.
// It runs for the life of the connection and exits when Serve stops it.
func (c *Connection) writeLoop() {
	for {
		select {
		case item := <-c.outbound:
			var err error
			if item.frame != nil {
				err = c.pipeline.WriteRaw(item.frame)
			} else {
				err = c.pipeline.WriteFrame(item.pkt)
			}
			if err != nil {
				c.writeFailed.Store(true)
				_ = c.pipeline.Close()
				return
			}
		case <-c.writerStop:
			return
		}
	}
}

// stopWriteLoop halts the writer goroutine. Safe to call more than once
// and safe to call even if the goroutine already exited on a write
// error.
func (c *Connection) stopWriteLoop() {
	c.stopOnce.Do(func() { close(c.writerStop) })
}

// SendPacket implements player.Sender: a non-blocking enqueue onto the
// writer goroutine. Returns protoerr.ErrSlowConsumer if the queue is
// already full rather than waiting for room.
func (c *Connection) SendPacket(pkt packets.Packet) error {
	if c.writeFailed.Load() {
		return protoerr.ErrDisconnected
	}
	select {
	case c.outbound <- outboundItem{pkt: pkt}:
		return nil
	default:
		return protoerr.ErrSlowConsumer
	}
}

// SendEncoded implements player.Sender: same non-blocking enqueue as
// SendPacket, for a frame already serialized once by the tick loop's
// broadcast fan-out.
func (c *Connection) SendEncoded(frame []byte) error {
	if c.writeFailed.Load() {
		return protoerr.ErrDisconnected
	}
	select {
	case c.outbound <- outboundItem{frame: frame}:
		return nil
	default:
		return protoerr.ErrSlowConsumer
	}
}

// Disconnect implements player.Sender: sends a state-appropriate
// disconnect reason then closes the underlying socket. The Play-state
// reason goes through the same non-blocking queue as everything else,
// since this can run on the tick goroutine (a keep-alive timeout); it's
// best-effort; a socket already jammed full may never deliver it before
// Close tears the connection down.
func (c *Connection) Disconnect(reason string) error {
	tc := ns.NewTextComponent(reason)
	content, err := json.Marshal(tc)
	if err != nil {
		content = []byte(`"disconnected"`)
	}
	switch c.state {
	case packets.StateLogin:
		_ = c.pipeline.WriteFrame(&packets.LoginDisconnect{Reason: ns.String(content)})
	case packets.StatePlay:
		_ = c.SendPacket(&packets.PlayDisconnect{Reason: ns.String(content)})
	}
	return c.pipeline.Close()
}

// RemoteAddr implements player.Sender.
func (c *Connection) RemoteAddr() string {
	return c.pipeline.RemoteAddr().String()
}

// readExpected blocks until the next frame arrives and decodes it into
// expected, rejecting anything else as a protocol violation. Used for
// the pre-Play states, which are a strict request/response sequence.
func (c *Connection) readExpected(expected packets.Packet) error {
	_ = c.pipeline.SetReadDeadline(time.Now().Add(c.stateTimeout()))
	wire, err := c.pipeline.ReadFrame()
	if err != nil {
		return err
	}
	if err := wire.ReadInto(expected); err != nil {
		return fmt.Errorf("state %d: %w", c.state, err)
	}
	return nil
}

// Serve runs the full connection lifecycle to completion. It returns
// nil on an orderly disconnect and a non-nil error for anything else;
// callers should always close the underlying connection afterward.
// Serve itself only stops the writer goroutine on exit; the pipeline is
// closed by Disconnect or by the writer after a failed write.
func (c *Connection) Serve() error {
	defer c.stopWriteLoop()

	handshake := &packets.Handshake{}
	if err := c.readExpected(handshake); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	switch handshake.NextState {
	case packets.IntentStatus:
		c.state = packets.StateStatus
		return c.serveStatus()
	case packets.IntentLogin:
		c.state = packets.StateLogin
		return c.serveLogin(handshake)
	default:
		return fmt.Errorf("handshake: unsupported next_state %d", handshake.NextState)
	}
}

func (c *Connection) stateTimeout() time.Duration {
	return time.Duration(c.cfg.Server.StateTimeoutMS) * time.Millisecond
}
