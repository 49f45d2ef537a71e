package protocol

import (
	"encoding/json"
	"fmt"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusResponseDoc struct {
	Version     statusVersion `json:"version"`
	Players     statusPlayers `json:"players"`
	Description any           `json:"description"`
}

// serveStatus answers a server list ping: StatusRequest -> StatusResponse,
// then an optional PingRequest -> PongResponse echo, then the client
// closes the connection itself.
func (c *Connection) serveStatus() error {
	if err := c.readExpected(&packets.StatusRequest{}); err != nil {
		return fmt.Errorf("status request: %w", err)
	}

	doc := statusResponseDoc{
		Version:     statusVersion{Name: "1.21.11", Protocol: int32(packets.ProtocolVersion)},
		Players:     statusPlayers{Max: c.status.MaxPlayers(), Online: c.status.PlayerCount()},
		Description: map[string]string{"text": c.status.MOTD()},
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode status response: %w", err)
	}
	if err := c.pipeline.WriteFrame(&packets.StatusResponse{JSON: ns.String(body)}); err != nil {
		return fmt.Errorf("send status response: %w", err)
	}

	ping := &packets.PingRequest{}
	wire, err := c.pipeline.ReadFrame()
	if err != nil {
		// client pinged without following up with a ping payload; that's
		// a normal way for a server list to end the conversation.
		return nil
	}
	if err := wire.ReadInto(ping); err != nil {
		return fmt.Errorf("ping request: %w", err)
	}
	return c.pipeline.WriteFrame(&packets.PongResponse{Payload: ping.Payload})
}
