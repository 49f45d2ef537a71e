package packets

import ns "github.com/tn-lorenz/SteelMC/internal/netcode"

// StatusRequest (C2S, 0x00) has no fields; it asks the server for a
// StatusResponse.
type StatusRequest struct{}

func (*StatusRequest) ID() ns.VarInt               { return 0x00 }
func (*StatusRequest) State() State                { return StateStatus }
func (*StatusRequest) Bound() Bound                 { return C2S }
func (*StatusRequest) Read(*ns.PacketBuffer) error  { return nil }
func (*StatusRequest) Write(*ns.PacketBuffer) error { return nil }

// StatusResponse (S2C, 0x00) carries the server list ping JSON document
// (version, players, description, favicon).
type StatusResponse struct {
	JSON ns.String
}

func (*StatusResponse) ID() ns.VarInt    { return 0x00 }
func (*StatusResponse) State() State     { return StateStatus }
func (*StatusResponse) Bound() Bound     { return S2C }

func (p *StatusResponse) Read(buf *ns.PacketBuffer) error {
	s, err := buf.ReadString(32767)
	p.JSON = s
	return err
}

func (p *StatusResponse) Write(buf *ns.PacketBuffer) error {
	return buf.WriteString(p.JSON)
}

// PingRequest (C2S, 0x01) / PongResponse (S2C, 0x01) carry an opaque
// client-chosen payload echoed back unchanged, used for latency
// measurement.
type PingRequest struct {
	Payload ns.Int64
}

func (*PingRequest) ID() ns.VarInt    { return 0x01 }
func (*PingRequest) State() State     { return StateStatus }
func (*PingRequest) Bound() Bound     { return C2S }

func (p *PingRequest) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadInt64()
	p.Payload = v
	return err
}

func (p *PingRequest) Write(buf *ns.PacketBuffer) error {
	return buf.WriteInt64(p.Payload)
}

type PongResponse struct {
	Payload ns.Int64
}

func (*PongResponse) ID() ns.VarInt    { return 0x01 }
func (*PongResponse) State() State     { return StateStatus }
func (*PongResponse) Bound() Bound     { return S2C }

func (p *PongResponse) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadInt64()
	p.Payload = v
	return err
}

func (p *PongResponse) Write(buf *ns.PacketBuffer) error {
	return buf.WriteInt64(p.Payload)
}
