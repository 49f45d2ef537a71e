package packets

import ns "github.com/tn-lorenz/SteelMC/internal/netcode"

// ProtocolVersion is the numeric protocol version SteelMC speaks,
// corresponding to Java Edition 1.21.11.
const ProtocolVersion ns.VarInt = 774

// Intent is the next state requested by a Handshake packet.
type Intent ns.VarInt

const (
	IntentStatus     Intent = 1
	IntentLogin      Intent = 2
	IntentTransfer   Intent = 3
)

// Handshake is the single Handshaking-state packet: it carries the
// client's protocol version and the next state it intends to enter.
type Handshake struct {
	ProtocolVersion ns.VarInt
	ServerAddress   ns.String
	ServerPort      ns.Uint16
	NextState       Intent
}

func (*Handshake) ID() ns.VarInt        { return 0x00 }
func (*Handshake) State() State         { return StateHandshake }
func (*Handshake) Bound() Bound         { return C2S }

func (p *Handshake) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.ProtocolVersion, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ServerAddress, err = buf.ReadString(255); err != nil {
		return err
	}
	if p.ServerPort, err = buf.ReadUint16(); err != nil {
		return err
	}
	next, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.NextState = Intent(next)
	return nil
}

func (p *Handshake) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteVarInt(p.ProtocolVersion); err != nil {
		return err
	}
	if err := buf.WriteString(p.ServerAddress); err != nil {
		return err
	}
	if err := buf.WriteUint16(p.ServerPort); err != nil {
		return err
	}
	return buf.WriteVarInt(ns.VarInt(p.NextState))
}
