package packets

import ns "github.com/tn-lorenz/SteelMC/internal/netcode"

// ClientInformation (C2S, 0x00): client locale/view-distance/chat-mode
// settings, sent once at the start of Configuration and again whenever
// the player changes them in Play.
type ClientInformation struct {
	Locale              ns.String
	ViewDistance         ns.Int8
	ChatMode             ns.VarInt
	ChatColors           ns.Boolean
	DisplayedSkinParts   ns.Uint8
	MainHand             ns.VarInt
	EnableTextFiltering  ns.Boolean
	AllowServerListings  ns.Boolean
	ParticleStatus       ns.VarInt
}

func (*ClientInformation) ID() ns.VarInt { return 0x00 }
func (*ClientInformation) State() State  { return StateConfiguration }
func (*ClientInformation) Bound() Bound  { return C2S }

func (p *ClientInformation) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.Locale, err = buf.ReadString(16); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.ChatMode, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ChatColors, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DisplayedSkinParts, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.MainHand, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.EnableTextFiltering, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.AllowServerListings, err = buf.ReadBool(); err != nil {
		return err
	}
	p.ParticleStatus, err = buf.ReadVarInt()
	return err
}

func (p *ClientInformation) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteString(p.Locale); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ChatMode); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ChatColors); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.DisplayedSkinParts); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MainHand); err != nil {
		return err
	}
	if err := buf.WriteBool(p.EnableTextFiltering); err != nil {
		return err
	}
	if err := buf.WriteBool(p.AllowServerListings); err != nil {
		return err
	}
	return buf.WriteVarInt(p.ParticleStatus)
}

// PluginMessage carries an opaque namespaced payload; identical wire
// shape in both directions and in both Configuration and Play.
type PluginMessage struct {
	Channel ns.Identifier
	Data    ns.ByteArray
}

// ServerboundPluginMessage and ClientboundPluginMessage are distinct
// wire types (same fields, different IDs per direction/state) so the
// registry table keeps a 1:1 Packet->ID mapping.
type ServerboundPluginMessageConfig struct{ PluginMessage }
type ClientboundPluginMessageConfig struct{ PluginMessage }

func (*ServerboundPluginMessageConfig) ID() ns.VarInt { return 0x02 }
func (*ServerboundPluginMessageConfig) State() State  { return StateConfiguration }
func (*ServerboundPluginMessageConfig) Bound() Bound  { return C2S }

func (*ClientboundPluginMessageConfig) ID() ns.VarInt { return 0x01 }
func (*ClientboundPluginMessageConfig) State() State  { return StateConfiguration }
func (*ClientboundPluginMessageConfig) Bound() Bound  { return S2C }

func (p *PluginMessage) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = buf.ReadByteArray(1048576)
	return err
}

func (p *PluginMessage) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	return buf.WriteByteArray(p.Data)
}

// FinishConfiguration (S2C, 0x03): tells the client configuration is
// complete; it must reply with AcknowledgeFinishConfiguration.
type FinishConfiguration struct{}

func (*FinishConfiguration) ID() ns.VarInt               { return 0x03 }
func (*FinishConfiguration) State() State                { return StateConfiguration }
func (*FinishConfiguration) Bound() Bound                 { return S2C }
func (*FinishConfiguration) Read(*ns.PacketBuffer) error  { return nil }
func (*FinishConfiguration) Write(*ns.PacketBuffer) error { return nil }

// AcknowledgeFinishConfiguration (C2S, 0x03): the reply that moves the
// connection into Play.
type AcknowledgeFinishConfiguration struct{}

func (*AcknowledgeFinishConfiguration) ID() ns.VarInt               { return 0x03 }
func (*AcknowledgeFinishConfiguration) State() State                { return StateConfiguration }
func (*AcknowledgeFinishConfiguration) Bound() Bound                 { return C2S }
func (*AcknowledgeFinishConfiguration) Read(*ns.PacketBuffer) error  { return nil }
func (*AcknowledgeFinishConfiguration) Write(*ns.PacketBuffer) error { return nil }

// KnownPacks (both directions, 0x07 C2S / 0x0E S2C): negotiates which
// vanilla data pack versions both ends already agree on, so the server
// can skip sending registry data the client already has.
type KnownPack struct {
	Namespace ns.String
	ID        ns.String
	Version   ns.String
}

type ServerboundKnownPacks struct {
	Packs ns.PrefixedArray[KnownPack]
}

func (*ServerboundKnownPacks) ID() ns.VarInt { return 0x07 }
func (*ServerboundKnownPacks) State() State  { return StateConfiguration }
func (*ServerboundKnownPacks) Bound() Bound  { return C2S }

func (p *ServerboundKnownPacks) Read(buf *ns.PacketBuffer) error {
	return p.Packs.DecodeWith(buf, decodeKnownPack)
}

func (p *ServerboundKnownPacks) Write(buf *ns.PacketBuffer) error {
	return p.Packs.EncodeWith(buf, encodeKnownPack)
}

type ClientboundKnownPacks struct {
	Packs ns.PrefixedArray[KnownPack]
}

func (*ClientboundKnownPacks) ID() ns.VarInt { return 0x0E }
func (*ClientboundKnownPacks) State() State  { return StateConfiguration }
func (*ClientboundKnownPacks) Bound() Bound  { return S2C }

func (p *ClientboundKnownPacks) Read(buf *ns.PacketBuffer) error {
	return p.Packs.DecodeWith(buf, decodeKnownPack)
}

func (p *ClientboundKnownPacks) Write(buf *ns.PacketBuffer) error {
	return p.Packs.EncodeWith(buf, encodeKnownPack)
}

func decodeKnownPack(buf *ns.PacketBuffer) (KnownPack, error) {
	var kp KnownPack
	var err error
	if kp.Namespace, err = buf.ReadString(32767); err != nil {
		return kp, err
	}
	if kp.ID, err = buf.ReadString(32767); err != nil {
		return kp, err
	}
	kp.Version, err = buf.ReadString(32767)
	return kp, err
}

func encodeKnownPack(buf *ns.PacketBuffer, kp KnownPack) error {
	if err := buf.WriteString(kp.Namespace); err != nil {
		return err
	}
	if err := buf.WriteString(kp.ID); err != nil {
		return err
	}
	return buf.WriteString(kp.Version)
}

// RegistryData (S2C, 0x07): one network-NBT-encoded registry (block,
// item, biome, etc) entry set.
type RegistryData struct {
	RegistryID ns.Identifier
	Entries    ns.ByteArray // pre-encoded NBT payload, opaque at this layer
}

func (*RegistryData) ID() ns.VarInt { return 0x07 }
func (*RegistryData) State() State  { return StateConfiguration }
func (*RegistryData) Bound() Bound  { return S2C }

func (p *RegistryData) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.RegistryID, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Entries, err = buf.ReadByteArray(1 << 20)
	return err
}

func (p *RegistryData) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.RegistryID); err != nil {
		return err
	}
	return buf.WriteByteArray(p.Entries)
}
