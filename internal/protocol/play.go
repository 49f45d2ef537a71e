package protocol

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/player"
)

// overworldDimension must match the "minecraft:overworld" entry
// registryDataPackets seeds into the dimension_type registry.
const overworldDimension ns.Identifier = "minecraft:overworld"

// servePlay sends ClientboundLoginPlay, constructs the player session,
// registers it with the tick loop, then reads decoded Play packets off
// the wire until the connection ends, handing each one to the player's
// Inbound queue for the tick thread to apply.
func (c *Connection) servePlay(profile ns.GameProfile, viewDistance int32) error {
	_ = c.pipeline.SetReadDeadline(time.Time{}) // no wall timeout once keep-alive governs liveness

	entityID := nextEntityID.Inc()

	loginPlay := &packets.ClientboundLoginPlay{
		EntityID:            ns.Int32(entityID),
		IsHardcore:          false,
		DimensionNames:      ns.PrefixedArray[ns.Identifier]{overworldDimension},
		MaxPlayers:          ns.VarInt(c.cfg.Server.MaxPlayers),
		ViewDistance:        ns.VarInt(viewDistance),
		SimulationDistance:  ns.VarInt(viewDistance),
		ReducedDebugInfo:    false,
		EnableRespawnScreen: true,
		DoLimitedCrafting:   false,
		DimensionType:       0,
		DimensionName:       overworldDimension,
		HashedSeed:          ns.Int64(c.world.Seed),
		GameMode:            ns.Uint8(player.GameModeSurvival),
		PreviousGameMode:    -1,
		IsDebug:             false,
		IsFlat:              true,
		HasDeathLocation:    false,
		PortalCooldown:      0,
		SeaLevel:            ns.VarInt(c.world.Generator.SurfaceY()),
		EnforcesSecureChat:  false,
	}
	if err := c.pipeline.WriteFrame(loginPlay); err != nil {
		return fmt.Errorf("send login play: %w", err)
	}

	if cmds, err := c.commands.Encode(); err != nil {
		c.log.Error("encode command graph, skipping", zap.Error(err))
	} else if err := c.pipeline.WriteFrame(cmds); err != nil {
		return fmt.Errorf("send commands: %w", err)
	}

	// The chat-signing key, if any, arrives later as a ServerboundPlayerSession
	// packet once the read loop below starts; the tick loop installs it on
	// c.player via Player.SetProfileKey as soon as it's verified.
	c.player = player.NewPlayer(c, profile, nil, viewDistance, [16]byte{})
	c.player.SetPosition(player.Position{X: 8, Y: float64(c.world.Generator.SurfaceY() + 1), Z: 8, OnGround: true})

	sync := &packets.SynchronizePlayerPosition{
		X: ns.Float64(c.player.Position.X), Y: ns.Float64(c.player.Position.Y), Z: ns.Float64(c.player.Position.Z),
		Yaw: 0, Pitch: 0, Flags: 0, TeleportID: 1,
	}
	if err := c.pipeline.WriteFrame(sync); err != nil {
		return fmt.Errorf("send synchronize position: %w", err)
	}

	c.loop.AddPlayer(c.player, c.world)
	defer c.loop.RemovePlayer(c.player.UUID())

	for {
		wire, err := c.pipeline.ReadFrame()
		if err != nil {
			return fmt.Errorf("play: %w", err)
		}
		pkt, ok := c.table.Decode(packets.StatePlay, packets.C2S, int32(wire.PacketID))
		if !ok {
			continue
		}
		if err := wire.ReadInto(pkt); err != nil {
			c.log.Debug("drop malformed play packet", zap.Error(err))
			continue
		}
		select {
		case c.player.Inbound <- pkt:
		default:
			c.log.Debug("player inbound queue full, dropping packet")
		}
	}
}
