package packets

import (
	"github.com/tn-lorenz/SteelMC/internal/nbt"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
)

// ServerboundKeepAlive (0x1A) / ClientboundKeepAlive (0x26) carry a
// server-chosen nonce the client must echo within the keep-alive
// timeout or be disconnected.
type ServerboundKeepAlive struct {
	ID_ ns.Int64
}

func (*ServerboundKeepAlive) ID() ns.VarInt { return 0x1A }
func (*ServerboundKeepAlive) State() State  { return StatePlay }
func (*ServerboundKeepAlive) Bound() Bound  { return C2S }

func (p *ServerboundKeepAlive) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadInt64()
	p.ID_ = v
	return err
}
func (p *ServerboundKeepAlive) Write(buf *ns.PacketBuffer) error { return buf.WriteInt64(p.ID_) }

type ClientboundKeepAlive struct {
	ID_ ns.Int64
}

func (*ClientboundKeepAlive) ID() ns.VarInt { return 0x26 }
func (*ClientboundKeepAlive) State() State  { return StatePlay }
func (*ClientboundKeepAlive) Bound() Bound  { return S2C }

func (p *ClientboundKeepAlive) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadInt64()
	p.ID_ = v
	return err
}
func (p *ClientboundKeepAlive) Write(buf *ns.PacketBuffer) error { return buf.WriteInt64(p.ID_) }

// ChatMessage (C2S, 0x08): a signed chat message, per the MessageChain
// model — message body plus the cryptographic envelope that proves it
// came from this session in this order.
type ChatMessage struct {
	Message           ns.String
	Timestamp         ns.Int64
	Salt              ns.Int64
	Signature         ns.PrefixedOptional[ns.ByteArray] // absent when Message is a command argument passthrough
	MessageCount      ns.VarInt
	Acknowledged      ns.FixedBitSet // 20-bit: which of the last 20 seen messages are acknowledged
	CheckAcknowledged ns.Boolean
}

func (*ChatMessage) ID() ns.VarInt { return 0x08 }
func (*ChatMessage) State() State  { return StatePlay }
func (*ChatMessage) Bound() Bound  { return C2S }

func (p *ChatMessage) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.Message, err = buf.ReadString(256); err != nil {
		return err
	}
	if p.Timestamp, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.Salt, err = buf.ReadInt64(); err != nil {
		return err
	}
	if err = p.Signature.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.ByteArray, error) {
		return b.ReadFixedByteArray(256)
	}); err != nil {
		return err
	}
	if p.MessageCount, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.Acknowledged = *ns.NewFixedBitSet(20)
	if err = p.Acknowledged.Decode(buf); err != nil {
		return err
	}
	return nil
}

func (p *ChatMessage) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteString(p.Message); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.Timestamp); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.Salt); err != nil {
		return err
	}
	if err := p.Signature.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.ByteArray) error {
		return b.WriteFixedByteArray(v)
	}); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MessageCount); err != nil {
		return err
	}
	return p.Acknowledged.Encode(buf)
}

// ServerboundPlayerSession (C2S, 0x07): presents the client's chat
// session key and Mojang's attestation for it. Sent once, shortly after
// the client enters Play; a session that never sends one has no
// chat-signing key and every ChatMessage it sends is treated as
// unsigned.
type ServerboundPlayerSession struct {
	SessionID    ns.UUID
	ExpiresAt    ns.Int64
	PublicKey    ns.ByteArray
	KeySignature ns.ByteArray
}

func (*ServerboundPlayerSession) ID() ns.VarInt { return 0x07 }
func (*ServerboundPlayerSession) State() State  { return StatePlay }
func (*ServerboundPlayerSession) Bound() Bound  { return C2S }

func (p *ServerboundPlayerSession) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.SessionID, err = buf.ReadUUID(); err != nil {
		return err
	}
	if p.ExpiresAt, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.PublicKey, err = buf.ReadByteArray(512); err != nil {
		return err
	}
	p.KeySignature, err = buf.ReadByteArray(4096)
	return err
}

func (p *ServerboundPlayerSession) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteUUID(p.SessionID); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.ExpiresAt); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.PublicKey); err != nil {
		return err
	}
	return buf.WriteByteArray(p.KeySignature)
}

// PlayerChatMessage (S2C, 0x40): a verified chat message relayed to
// other players, carrying enough of the sender's envelope for their
// clients to re-verify the chain.
type PlayerChatMessage struct {
	SenderUUID        ns.UUID
	Index             ns.VarInt
	Signature         ns.PrefixedOptional[ns.ByteArray]
	Message           ns.String
	Timestamp         ns.Int64
	Salt              ns.Int64
	UnsignedContent   ns.PrefixedOptional[ns.String] // JSON text component override
	FilterMaskType    ns.VarInt
	ChatTypeID        ns.VarInt
	SenderName        ns.String // JSON text component
}

func (*PlayerChatMessage) ID() ns.VarInt { return 0x40 }
func (*PlayerChatMessage) State() State  { return StatePlay }
func (*PlayerChatMessage) Bound() Bound  { return S2C }

func (p *PlayerChatMessage) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.SenderUUID, err = buf.ReadUUID(); err != nil {
		return err
	}
	if p.Index, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if err = p.Signature.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.ByteArray, error) {
		return b.ReadFixedByteArray(256)
	}); err != nil {
		return err
	}
	if p.Message, err = buf.ReadString(256); err != nil {
		return err
	}
	if p.Timestamp, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.Salt, err = buf.ReadInt64(); err != nil {
		return err
	}
	if err = p.UnsignedContent.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.String, error) {
		return b.ReadString(32767)
	}); err != nil {
		return err
	}
	if p.FilterMaskType, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ChatTypeID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.SenderName, err = buf.ReadString(32767)
	return err
}

func (p *PlayerChatMessage) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteUUID(p.SenderUUID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.Index); err != nil {
		return err
	}
	if err := p.Signature.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.ByteArray) error {
		return b.WriteFixedByteArray(v)
	}); err != nil {
		return err
	}
	if err := buf.WriteString(p.Message); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.Timestamp); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.Salt); err != nil {
		return err
	}
	if err := p.UnsignedContent.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.String) error {
		return b.WriteString(v)
	}); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.FilterMaskType); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ChatTypeID); err != nil {
		return err
	}
	return buf.WriteString(p.SenderName)
}

// SystemChatMessage (S2C, 0x73): an unsigned, server-originated chat
// line (command feedback, join/leave announcements).
type SystemChatMessage struct {
	Content  ns.String // JSON text component
	Overlay  ns.Boolean
}

func (*SystemChatMessage) ID() ns.VarInt { return 0x73 }
func (*SystemChatMessage) State() State  { return StatePlay }
func (*SystemChatMessage) Bound() Bound  { return S2C }

func (p *SystemChatMessage) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.Content, err = buf.ReadString(262144); err != nil {
		return err
	}
	p.Overlay, err = buf.ReadBool()
	return err
}

func (p *SystemChatMessage) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteString(p.Content); err != nil {
		return err
	}
	return buf.WriteBool(p.Overlay)
}

// Disconnect (S2C, Play, 0x1D): terminates the connection with a reason.
type PlayDisconnect struct {
	Reason ns.String // JSON text component
}

func (*PlayDisconnect) ID() ns.VarInt { return 0x1D }
func (*PlayDisconnect) State() State  { return StatePlay }
func (*PlayDisconnect) Bound() Bound  { return S2C }

func (p *PlayDisconnect) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadString(262144)
	p.Reason = v
	return err
}
func (p *PlayDisconnect) Write(buf *ns.PacketBuffer) error { return buf.WriteString(p.Reason) }

// SetPlayerPosition (C2S, 0x1C): the client's authoritative movement
// report for this tick.
type SetPlayerPosition struct {
	X, Y, Z  ns.Float64
	OnGround ns.Boolean
}

func (*SetPlayerPosition) ID() ns.VarInt { return 0x1C }
func (*SetPlayerPosition) State() State  { return StatePlay }
func (*SetPlayerPosition) Bound() Bound  { return C2S }

func (p *SetPlayerPosition) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *SetPlayerPosition) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	return buf.WriteBool(p.OnGround)
}

// SynchronizePlayerPosition (S2C, 0x41): authoritative teleport, used
// both at spawn and any time the server needs to correct the client.
type SynchronizePlayerPosition struct {
	X, Y, Z       ns.Float64
	Yaw, Pitch    ns.Float32
	Flags         ns.Uint8
	TeleportID    ns.VarInt
}

func (*SynchronizePlayerPosition) ID() ns.VarInt { return 0x41 }
func (*SynchronizePlayerPosition) State() State  { return StatePlay }
func (*SynchronizePlayerPosition) Bound() Bound  { return S2C }

func (p *SynchronizePlayerPosition) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Yaw, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Pitch, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Flags, err = buf.ReadUint8(); err != nil {
		return err
	}
	p.TeleportID, err = buf.ReadVarInt()
	return err
}

func (p *SynchronizePlayerPosition) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Pitch); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.Flags); err != nil {
		return err
	}
	return buf.WriteVarInt(p.TeleportID)
}

// ContainerClick (C2S, 0x10): a click in any open container. StateID is
// the client's last-known inventory state id; a mismatch against the
// server's current state id is how state-id desync is detected.
type ContainerClick struct {
	WindowID     ns.Uint8
	StateID      ns.VarInt
	Slot         ns.Int16
	Button       ns.Int8
	Mode         ns.VarInt
	ChangedSlots ns.PrefixedArray[SlotChange]
	CarriedItem  ns.Slot
}

// SlotChange is one (slot index, resulting item) pair in a
// ContainerClick's change set.
type SlotChange struct {
	SlotIndex ns.Int16
	Item      ns.Slot
}

func (*ContainerClick) ID() ns.VarInt { return 0x10 }
func (*ContainerClick) State() State  { return StatePlay }
func (*ContainerClick) Bound() Bound  { return C2S }

func (p *ContainerClick) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.WindowID, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.StateID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Slot, err = buf.ReadInt16(); err != nil {
		return err
	}
	if p.Button, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.Mode, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if err = p.ChangedSlots.DecodeWith(buf, func(b *ns.PacketBuffer) (SlotChange, error) {
		var sc SlotChange
		var e error
		if sc.SlotIndex, e = b.ReadInt16(); e != nil {
			return sc, e
		}
		sc.Item, e = b.ReadSlot()
		return sc, e
	}); err != nil {
		return err
	}
	p.CarriedItem, err = buf.ReadSlot()
	return err
}

func (p *ContainerClick) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteUint8(p.WindowID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.StateID); err != nil {
		return err
	}
	if err := buf.WriteInt16(p.Slot); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.Button); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.Mode); err != nil {
		return err
	}
	if err := p.ChangedSlots.EncodeWith(buf, func(b *ns.PacketBuffer, sc SlotChange) error {
		if err := b.WriteInt16(sc.SlotIndex); err != nil {
			return err
		}
		return sc.Item.Encode(b)
	}); err != nil {
		return err
	}
	return p.CarriedItem.Encode(buf)
}

// ContainerSetContent (S2C, 0x13): a full resync of every slot in a
// container, sent when the server detects a state-id mismatch.
type ContainerSetContent struct {
	WindowID    ns.Uint8
	StateID     ns.VarInt
	Slots       ns.PrefixedArray[ns.Slot]
	CarriedItem ns.Slot
}

func (*ContainerSetContent) ID() ns.VarInt { return 0x13 }
func (*ContainerSetContent) State() State  { return StatePlay }
func (*ContainerSetContent) Bound() Bound  { return S2C }

func (p *ContainerSetContent) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.WindowID, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.StateID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if err = p.Slots.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.Slot, error) { return b.ReadSlot() }); err != nil {
		return err
	}
	p.CarriedItem, err = buf.ReadSlot()
	return err
}

func (p *ContainerSetContent) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteUint8(p.WindowID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.StateID); err != nil {
		return err
	}
	if err := p.Slots.EncodeWith(buf, func(b *ns.PacketBuffer, s ns.Slot) error {
		return s.Encode(b)
	}); err != nil {
		return err
	}
	return p.CarriedItem.Encode(buf)
}

// ContainerSetSlot (S2C, 0x14): an incremental single-slot update.
type ContainerSetSlot struct {
	WindowID ns.Int8
	StateID  ns.VarInt
	Slot     ns.Int16
	Item     ns.Slot
}

func (*ContainerSetSlot) ID() ns.VarInt { return 0x14 }
func (*ContainerSetSlot) State() State  { return StatePlay }
func (*ContainerSetSlot) Bound() Bound  { return S2C }

func (p *ContainerSetSlot) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.WindowID, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.StateID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Slot, err = buf.ReadInt16(); err != nil {
		return err
	}
	p.Item, err = buf.ReadSlot()
	return err
}

func (p *ContainerSetSlot) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteInt8(p.WindowID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.StateID); err != nil {
		return err
	}
	if err := buf.WriteInt16(p.Slot); err != nil {
		return err
	}
	return p.Item.Encode(buf)
}

// LevelChunkWithLight (S2C, 0x27): one full chunk column plus its light
// data, the unit of work the chunk streamer (C6) sends per newly
// entered chunk.
type LevelChunkWithLight struct {
	ChunkX, ChunkZ ns.Int32
	Heightmaps     ns.ByteArray // network NBT, opaque at this layer
	Data           ns.ByteArray // serialized PalettedContainer sections
	BlockEntities  ns.PrefixedArray[ChunkBlockEntity]
	SkyLightMask   ns.BitSet
	BlockLightMask ns.BitSet
	EmptySkyLightMask   ns.BitSet
	EmptyBlockLightMask ns.BitSet
	SkyLightArrays      ns.PrefixedArray[ns.ByteArray]
	BlockLightArrays    ns.PrefixedArray[ns.ByteArray]
}

// ChunkBlockEntity is one block entity (chest, sign, ...) embedded in a
// chunk column.
type ChunkBlockEntity struct {
	PackedXZ ns.Uint8
	Y        ns.Int16
	Type     ns.VarInt
	Data     nbt.Tag
}

func (*LevelChunkWithLight) ID() ns.VarInt { return 0x27 }
func (*LevelChunkWithLight) State() State  { return StatePlay }
func (*LevelChunkWithLight) Bound() Bound  { return S2C }

func (p *LevelChunkWithLight) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.ChunkX, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.ChunkZ, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.Heightmaps, err = buf.ReadByteArray(1 << 20); err != nil {
		return err
	}
	if p.Data, err = buf.ReadByteArray(1 << 21); err != nil {
		return err
	}
	if err = p.BlockEntities.DecodeWith(buf, decodeChunkBlockEntity); err != nil {
		return err
	}
	if err = p.SkyLightMask.Decode(buf); err != nil {
		return err
	}
	if err = p.BlockLightMask.Decode(buf); err != nil {
		return err
	}
	if err = p.EmptySkyLightMask.Decode(buf); err != nil {
		return err
	}
	if err = p.EmptyBlockLightMask.Decode(buf); err != nil {
		return err
	}
	if err = p.SkyLightArrays.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.ByteArray, error) {
		return b.ReadByteArray(2048)
	}); err != nil {
		return err
	}
	return p.BlockLightArrays.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.ByteArray, error) {
		return b.ReadByteArray(2048)
	})
}

func (p *LevelChunkWithLight) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteInt32(p.ChunkX); err != nil {
		return err
	}
	if err := buf.WriteInt32(p.ChunkZ); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.Heightmaps); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.Data); err != nil {
		return err
	}
	if err := p.BlockEntities.EncodeWith(buf, encodeChunkBlockEntity); err != nil {
		return err
	}
	if err := p.SkyLightMask.Encode(buf); err != nil {
		return err
	}
	if err := p.BlockLightMask.Encode(buf); err != nil {
		return err
	}
	if err := p.EmptySkyLightMask.Encode(buf); err != nil {
		return err
	}
	if err := p.EmptyBlockLightMask.Encode(buf); err != nil {
		return err
	}
	if err := p.SkyLightArrays.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.ByteArray) error {
		return b.WriteByteArray(v)
	}); err != nil {
		return err
	}
	return p.BlockLightArrays.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.ByteArray) error {
		return b.WriteByteArray(v)
	})
}

func decodeChunkBlockEntity(buf *ns.PacketBuffer) (ChunkBlockEntity, error) {
	var be ChunkBlockEntity
	var err error
	if be.PackedXZ, err = buf.ReadUint8(); err != nil {
		return be, err
	}
	if be.Y, err = buf.ReadInt16(); err != nil {
		return be, err
	}
	if be.Type, err = buf.ReadVarInt(); err != nil {
		return be, err
	}
	tag, _, err := nbt.NewReaderFrom(buf.Reader()).ReadTag(true)
	be.Data = tag
	return be, err
}

func encodeChunkBlockEntity(buf *ns.PacketBuffer, be ChunkBlockEntity) error {
	if err := buf.WriteUint8(be.PackedXZ); err != nil {
		return err
	}
	if err := buf.WriteInt16(be.Y); err != nil {
		return err
	}
	if err := buf.WriteVarInt(be.Type); err != nil {
		return err
	}
	return nbt.NewWriterTo(buf.Writer()).WriteTag(be.Data, "", true)
}

// Commands (S2C, 0x11): the full command graph, serialized as a
// literal/argument trie, sent once in Play.
type Commands struct {
	Nodes     ns.PrefixedArray[CommandNode]
	RootIndex ns.VarInt
}

// CommandNode is one node of the command graph; Children/RedirectTo are
// indices into the enclosing Commands.Nodes slice.
type CommandNode struct {
	Flags       ns.Uint8
	Children    ns.PrefixedArray[ns.VarInt]
	RedirectTo  ns.PrefixedOptional[ns.VarInt]
	Name        ns.PrefixedOptional[ns.String]
	Parser      ns.PrefixedOptional[ns.String]
	Properties  ns.ByteArray // parser-specific properties, opaque at this layer
	SuggestionsType ns.PrefixedOptional[ns.Identifier]
}

func (*Commands) ID() ns.VarInt { return 0x11 }
func (*Commands) State() State  { return StatePlay }
func (*Commands) Bound() Bound  { return S2C }

func (p *Commands) Read(buf *ns.PacketBuffer) error {
	if err := p.Nodes.DecodeWith(buf, decodeCommandNode); err != nil {
		return err
	}
	v, err := buf.ReadVarInt()
	p.RootIndex = v
	return err
}

func (p *Commands) Write(buf *ns.PacketBuffer) error {
	if err := p.Nodes.EncodeWith(buf, encodeCommandNode); err != nil {
		return err
	}
	return buf.WriteVarInt(p.RootIndex)
}

func decodeCommandNode(buf *ns.PacketBuffer) (CommandNode, error) {
	var n CommandNode
	var err error
	if n.Flags, err = buf.ReadUint8(); err != nil {
		return n, err
	}
	if err = n.Children.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.VarInt, error) { return b.ReadVarInt() }); err != nil {
		return n, err
	}
	nodeType := n.Flags & 0x03
	if n.Flags&0x08 != 0 { // has redirect
		if err = n.RedirectTo.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.VarInt, error) { return b.ReadVarInt() }); err != nil {
			return n, err
		}
	}
	if nodeType == 1 || nodeType == 2 { // literal or argument
		if err = n.Name.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.String, error) { return b.ReadString(32767) }); err != nil {
			return n, err
		}
	}
	if nodeType == 2 {
		if err = n.Parser.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.String, error) { return b.ReadString(32767) }); err != nil {
			return n, err
		}
	}
	if n.Flags&0x10 != 0 { // has suggestions
		if err = n.SuggestionsType.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.Identifier, error) { return b.ReadIdentifier() }); err != nil {
			return n, err
		}
	}
	return n, nil
}

func encodeCommandNode(buf *ns.PacketBuffer, n CommandNode) error {
	if err := buf.WriteUint8(n.Flags); err != nil {
		return err
	}
	if err := n.Children.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.VarInt) error { return b.WriteVarInt(v) }); err != nil {
		return err
	}
	if err := n.RedirectTo.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.VarInt) error { return b.WriteVarInt(v) }); err != nil {
		return err
	}
	if err := n.Name.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.String) error { return b.WriteString(v) }); err != nil {
		return err
	}
	if err := n.Parser.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.String) error { return b.WriteString(v) }); err != nil {
		return err
	}
	return n.SuggestionsType.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.Identifier) error { return b.WriteIdentifier(v) })
}

// ClientboundLoginPlay (S2C, 0x2B): the packet that actually switches the
// client into Play, carrying its entity ID and the dimension/gamemode
// state needed before any chunk can be rendered. Sent once, right after
// AcknowledgeFinishConfiguration.
type ClientboundLoginPlay struct {
	EntityID            ns.Int32
	IsHardcore          ns.Boolean
	DimensionNames      ns.PrefixedArray[ns.Identifier]
	MaxPlayers          ns.VarInt
	ViewDistance        ns.VarInt
	SimulationDistance  ns.VarInt
	ReducedDebugInfo    ns.Boolean
	EnableRespawnScreen ns.Boolean
	DoLimitedCrafting   ns.Boolean
	DimensionType       ns.VarInt
	DimensionName       ns.Identifier
	HashedSeed          ns.Int64
	GameMode            ns.Uint8
	PreviousGameMode    ns.Int8
	IsDebug             ns.Boolean
	IsFlat              ns.Boolean
	HasDeathLocation    ns.Boolean // always false: no respawn tracking in scope
	PortalCooldown      ns.VarInt
	SeaLevel            ns.VarInt
	EnforcesSecureChat  ns.Boolean
}

func (*ClientboundLoginPlay) ID() ns.VarInt { return 0x2B }
func (*ClientboundLoginPlay) State() State  { return StatePlay }
func (*ClientboundLoginPlay) Bound() Bound  { return S2C }

func (p *ClientboundLoginPlay) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.EntityID, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.IsHardcore, err = buf.ReadBool(); err != nil {
		return err
	}
	if err = p.DimensionNames.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.Identifier, error) { return b.ReadIdentifier() }); err != nil {
		return err
	}
	if p.MaxPlayers, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.SimulationDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ReducedDebugInfo, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.EnableRespawnScreen, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DoLimitedCrafting, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DimensionType, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.DimensionName, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	if p.HashedSeed, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.GameMode, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.PreviousGameMode, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.IsDebug, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsFlat, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.HasDeathLocation, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.PortalCooldown, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.SeaLevel, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.EnforcesSecureChat, err = buf.ReadBool()
	return err
}

func (p *ClientboundLoginPlay) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteInt32(p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsHardcore); err != nil {
		return err
	}
	if err := p.DimensionNames.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.Identifier) error { return b.WriteIdentifier(v) }); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MaxPlayers); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.SimulationDistance); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := buf.WriteBool(p.EnableRespawnScreen); err != nil {
		return err
	}
	if err := buf.WriteBool(p.DoLimitedCrafting); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.DimensionType); err != nil {
		return err
	}
	if err := buf.WriteIdentifier(p.DimensionName); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.HashedSeed); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.GameMode); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.PreviousGameMode); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsDebug); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsFlat); err != nil {
		return err
	}
	if err := buf.WriteBool(p.HasDeathLocation); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.PortalCooldown); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.SeaLevel); err != nil {
		return err
	}
	return buf.WriteBool(p.EnforcesSecureChat)
}
