// Package server wires the protocol, tick, and world layers into one
// listening process: it owns the RSA host key, the packet table, the
// world set, the tick loop, and the TCP accept loop, and implements
// protocol.StatusProvider for the status-state ping response.
package server

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tn-lorenz/SteelMC/internal/auth"
	"github.com/tn-lorenz/SteelMC/internal/chat"
	"github.com/tn-lorenz/SteelMC/internal/command"
	"github.com/tn-lorenz/SteelMC/internal/config"
	"github.com/tn-lorenz/SteelMC/internal/mcrypto"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/protocol"
	"github.com/tn-lorenz/SteelMC/internal/tick"
	"github.com/tn-lorenz/SteelMC/internal/world"
)

// ErrBind wraps a failure to bind the game socket, so main can map it
// to the bind-error exit code distinct from other runtime failures.
var ErrBind = errors.New("server: bind failed")

// rsaKeyBits matches vanilla's login encryption key size.
const rsaKeyBits = 1024

// chunkPoolConcurrency bounds how many chunk generation tasks the
// world's chunk map runs at once.
const chunkPoolConcurrency = 4

// chunkUnloadGrace is how long an unsubscribed chunk stays resident
// before the chunk map frees it, absorbing players walking back and
// forth across a chunk border.
const chunkUnloadGrace = 30 * time.Second

// shutdownDrain is how long Run waits for in-flight connections to
// close themselves after the disconnect broadcast before it aborts
// whatever is left.
const shutdownDrain = 10 * time.Second

// Server is one running SteelMC process.
type Server struct {
	cfg *config.Config
	log *zap.Logger

	table         *packets.Table
	serverKey     *rsa.PrivateKey
	serverKeyDER  []byte
	sessionClient *auth.SessionServerClient

	world       *world.World
	loop        *tick.Loop
	commands    *command.Tree
	persistence world.Persistence

	shutdown     chan struct{}
	shutdownOnce sync.Once

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// New builds a Server ready to Run: it generates the login encryption
// keypair, constructs the single overworld, and registers the built-in
// command set. It does not bind a socket yet.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	rsaKey, err := mcrypto.GenerateKeyPair(rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("server: generate host key: %w", err)
	}
	keyDER, err := mcrypto.ConvertPublicKeyToSPKI(&rsaKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("server: encode host key: %w", err)
	}

	s := &Server{
		cfg:          cfg,
		log:          log,
		table:        packets.NewTable(),
		serverKey:    rsaKey,
		serverKeyDER: keyDER,
		shutdown:     make(chan struct{}),
		conns:        make(map[net.Conn]struct{}),
		persistence:  world.NoopPersistence{},
	}

	if cfg.Server.OnlineMode {
		s.sessionClient = auth.NewSessionServerClient()
	}

	gen := world.NewFlatGenerator(24, -64, 3)
	s.world = world.NewWorld(context.Background(), "overworld", "minecraft:overworld", cfg.World.Seed, gen, chunkPoolConcurrency, chunkUnloadGrace, log.Named("world"))

	chatCfg := chat.Config{
		GracePast:   time.Duration(cfg.Chat.GracePastMS) * time.Millisecond,
		GraceFuture: time.Duration(cfg.Chat.GraceFutureMS) * time.Millisecond,
		Policy:      chat.Policy(cfg.Chat.Policy),
	}
	s.commands = s.buildCommands()
	s.loop = tick.NewLoop(
		s.commands,
		chatCfg,
		cfg.Server.CompressionThreshold,
		time.Duration(cfg.Server.KeepAliveIntervalMS)*time.Millisecond,
		time.Duration(cfg.Server.KeepAliveTimeoutMS)*time.Millisecond,
		log.Named("tick"),
	)
	s.loop.AddWorld(s.world)

	return s, nil
}

// MOTD implements protocol.StatusProvider.
func (s *Server) MOTD() string { return s.cfg.Server.MOTD }

// PlayerCount implements protocol.StatusProvider.
func (s *Server) PlayerCount() int { return s.loop.PlayerCount() }

// MaxPlayers implements protocol.StatusProvider.
func (s *Server) MaxPlayers() int { return s.cfg.Server.MaxPlayers }

// Run binds the game socket and the metrics endpoint, starts the tick
// loop, and accepts connections until ctx is canceled or the "stop"
// command fires. Shutdown then runs in order: stop accepting, send
// every Play connection a disconnect, wait up to shutdownDrain for
// connections to close themselves, and force-close whatever is left.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %v", ErrBind, s.cfg.Server.Address, err)
	}
	s.log.Info("listening", zap.String("address", s.cfg.Server.Address), zap.Bool("online_mode", s.cfg.Server.OnlineMode))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error { return s.loop.Run(groupCtx) })
	group.Go(func() error { return s.serveMetrics(groupCtx) })
	group.Go(func() error {
		select {
		case <-groupCtx.Done():
		case <-s.shutdown:
			cancel()
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return listener.Close()
	})

	var connections sync.WaitGroup
	group.Go(func() error {
		return s.acceptLoop(groupCtx, listener, &connections)
	})
	group.Go(func() error {
		s.consoleLoop(groupCtx)
		return nil
	})

	err = group.Wait()
	s.shutdownSequence(&connections)
	s.log.Info("shut down")
	return err
}

// shutdownSequence runs once accepting has stopped: it disconnects
// every Play-state player, waits for connection goroutines to unwind
// on their own, and force-closes whatever is still open past the
// drain deadline.
func (s *Server) shutdownSequence(connections *sync.WaitGroup) {
	s.loop.DisconnectAll("Server closed")

	drained := make(chan struct{})
	go func() {
		connections.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return
	case <-time.After(shutdownDrain):
	}

	s.connMu.Lock()
	stragglers := len(s.conns)
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.connMu.Unlock()
	if stragglers > 0 {
		s.log.Warn("aborted connections still open past drain deadline", zap.Int("count", stragglers))
	}
	<-drained

	if err := s.persistence.SaveWorld(s.world); err != nil {
		s.log.Error("failed to persist world on shutdown", zap.Error(err))
	}
}

// acceptLoop accepts connections until ctx is canceled, handing each
// off to its own goroutine to run the full state machine.
func (s *Server) acceptLoop(ctx context.Context, listener net.Listener, connections *sync.WaitGroup) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("server: accept: %w", err)
			}
		}

		s.connMu.Lock()
		s.conns[conn] = struct{}{}
		s.connMu.Unlock()

		connections.Add(1)
		go func() {
			defer connections.Done()
			defer func() {
				_ = conn.Close()
				s.connMu.Lock()
				delete(s.conns, conn)
				s.connMu.Unlock()
			}()

			c := protocol.NewConnection(conn, s.table, s.serverKey, s.serverKeyDER, s.sessionClient, s.cfg, s, s.world, s.loop, s.commands, s.log)
			if err := c.Serve(); err != nil {
				s.log.Debug("connection ended", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			}
		}()
	}
}
