package protocol

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

// knownPack is the single data pack version this server advertises; it
// never matches a vanilla client's own known packs, so the client
// always accepts the registry data this server sends rather than
// relying on a cached copy.
var knownPack = packets.KnownPack{
	Namespace: "minecraft",
	ID:        "core",
	Version:   "1.21.11",
}

// serveConfiguration runs the Configuration state: exchange known
// packs, send registry data, relay plugin messages until the client
// signals it's done, then send FinishConfiguration and wait for the
// acknowledgement before entering Play.
func (c *Connection) serveConfiguration(profile ns.GameProfile) error {
	if err := c.pipeline.WriteFrame(&packets.ClientboundKnownPacks{
		Packs: ns.PrefixedArray[packets.KnownPack]{knownPack},
	}); err != nil {
		return fmt.Errorf("send known packs: %w", err)
	}

	registries, err := registryDataPackets()
	if err != nil {
		return fmt.Errorf("build registry data: %w", err)
	}

	var clientInfo *packets.ClientInformation

loop:
	for {
		_ = c.pipeline.SetReadDeadline(time.Now().Add(c.stateTimeout()))
		wire, err := c.pipeline.ReadFrame()
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}

		switch wire.PacketID {
		case (&packets.ClientInformation{}).ID():
			ci := &packets.ClientInformation{}
			if err := wire.ReadInto(ci); err != nil {
				return fmt.Errorf("client information: %w", err)
			}
			clientInfo = ci

		case (&packets.ServerboundKnownPacks{}).ID():
			known := &packets.ServerboundKnownPacks{}
			if err := wire.ReadInto(known); err != nil {
				return fmt.Errorf("known packs: %w", err)
			}
			for _, reg := range registries {
				if err := c.pipeline.WriteFrame(reg); err != nil {
					return fmt.Errorf("send registry data: %w", err)
				}
			}
			if err := c.pipeline.WriteFrame(&packets.FinishConfiguration{}); err != nil {
				return fmt.Errorf("send finish configuration: %w", err)
			}

		case (&packets.ServerboundPluginMessageConfig{}).ID():
			// opaque to this server; no plugin channels are implemented.

		case (&packets.AcknowledgeFinishConfiguration{}).ID():
			break loop

		default:
			c.log.Debug("ignoring unexpected configuration packet", zap.Int32("id", int32(wire.PacketID)))
		}
	}

	viewDistance := int32(c.cfg.Server.ViewDistance)
	if clientInfo != nil && int32(clientInfo.ViewDistance) > 0 && int32(clientInfo.ViewDistance) < viewDistance {
		viewDistance = int32(clientInfo.ViewDistance)
	}

	c.state = packets.StatePlay
	return c.servePlay(profile, viewDistance)
}
