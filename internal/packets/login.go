package packets

import ns "github.com/tn-lorenz/SteelMC/internal/netcode"

// LoginStart (C2S, 0x00) opens the Login state: the client's chosen
// username and (for online-mode reconnects) its profile UUID.
type LoginStart struct {
	Name ns.String
	UUID ns.UUID
}

func (*LoginStart) ID() ns.VarInt { return 0x00 }
func (*LoginStart) State() State  { return StateLogin }
func (*LoginStart) Bound() Bound  { return C2S }

func (p *LoginStart) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.Name, err = buf.ReadString(16); err != nil {
		return err
	}
	p.UUID, err = buf.ReadUUID()
	return err
}

func (p *LoginStart) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteString(p.Name); err != nil {
		return err
	}
	return buf.WriteUUID(p.UUID)
}

// EncryptionRequest (S2C, 0x01) is sent only in online mode: the
// server's RSA public key (X.509 SubjectPublicKeyInfo DER) and a
// freshly generated verify token.
type EncryptionRequest struct {
	ServerID    ns.String
	PublicKey   ns.ByteArray
	VerifyToken ns.ByteArray
}

func (*EncryptionRequest) ID() ns.VarInt { return 0x01 }
func (*EncryptionRequest) State() State  { return StateLogin }
func (*EncryptionRequest) Bound() Bound  { return S2C }

func (p *EncryptionRequest) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.ServerID, err = buf.ReadString(20); err != nil {
		return err
	}
	if p.PublicKey, err = buf.ReadByteArray(512); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray(256)
	return err
}

func (p *EncryptionRequest) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteString(p.ServerID); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.PublicKey); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// EncryptionResponse (C2S, 0x01) carries the client's RSA-encrypted
// shared secret and (echoed, also encrypted) verify token.
type EncryptionResponse struct {
	SharedSecret ns.ByteArray
	VerifyToken  ns.ByteArray
}

func (*EncryptionResponse) ID() ns.VarInt { return 0x01 }
func (*EncryptionResponse) State() State  { return StateLogin }
func (*EncryptionResponse) Bound() Bound  { return C2S }

func (p *EncryptionResponse) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.SharedSecret, err = buf.ReadByteArray(256); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray(256)
	return err
}

func (p *EncryptionResponse) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteByteArray(p.SharedSecret); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// LoginSuccess (S2C, 0x02), historically "LoginSuccess"/GameProfile:
// the server's final verdict on the player's identity. Sending this
// packet transitions the client into Configuration once it replies
// with LoginAcknowledged.
type LoginSuccess struct {
	UUID       ns.UUID
	Username   ns.String
	Properties ns.PrefixedArray[ProfileProperty]
}

// ProfileProperty is one signed profile property (most notably
// "textures") attached to a LoginSuccess.
type ProfileProperty struct {
	Name      ns.String
	Value     ns.String
	Signature ns.PrefixedOptional[ns.String]
}

func (*LoginSuccess) ID() ns.VarInt { return 0x02 }
func (*LoginSuccess) State() State  { return StateLogin }
func (*LoginSuccess) Bound() Bound  { return S2C }

func (p *LoginSuccess) Read(buf *ns.PacketBuffer) error {
	var err error
	if p.UUID, err = buf.ReadUUID(); err != nil {
		return err
	}
	if p.Username, err = buf.ReadString(16); err != nil {
		return err
	}
	return p.Properties.DecodeWith(buf, decodeProfileProperty)
}

func (p *LoginSuccess) Write(buf *ns.PacketBuffer) error {
	if err := buf.WriteUUID(p.UUID); err != nil {
		return err
	}
	if err := buf.WriteString(p.Username); err != nil {
		return err
	}
	return p.Properties.EncodeWith(buf, encodeProfileProperty)
}

func decodeProfileProperty(buf *ns.PacketBuffer) (ProfileProperty, error) {
	var prop ProfileProperty
	var err error
	if prop.Name, err = buf.ReadString(32767); err != nil {
		return prop, err
	}
	if prop.Value, err = buf.ReadString(32767); err != nil {
		return prop, err
	}
	err = prop.Signature.DecodeWith(buf, func(b *ns.PacketBuffer) (ns.String, error) {
		return b.ReadString(32767)
	})
	return prop, err
}

func encodeProfileProperty(buf *ns.PacketBuffer, prop ProfileProperty) error {
	if err := buf.WriteString(prop.Name); err != nil {
		return err
	}
	if err := buf.WriteString(prop.Value); err != nil {
		return err
	}
	return prop.Signature.EncodeWith(buf, func(b *ns.PacketBuffer, v ns.String) error {
		return b.WriteString(v)
	})
}

// LoginCompression (S2C, 0x03): from this point on (next frame in each
// direction), frames at or above Threshold bytes are zlib compressed.
type LoginCompression struct {
	Threshold ns.VarInt
}

func (*LoginCompression) ID() ns.VarInt { return 0x03 }
func (*LoginCompression) State() State  { return StateLogin }
func (*LoginCompression) Bound() Bound  { return S2C }

func (p *LoginCompression) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadVarInt()
	p.Threshold = v
	return err
}

func (p *LoginCompression) Write(buf *ns.PacketBuffer) error {
	return buf.WriteVarInt(p.Threshold)
}

// LoginDisconnect (S2C, 0x00 in spirit, but numbered after Start in this
// table) carries a text-component reason for rejecting the login.
type LoginDisconnect struct {
	Reason ns.String // JSON text component
}

func (*LoginDisconnect) ID() ns.VarInt { return 0x00 }
func (*LoginDisconnect) State() State  { return StateLogin }
func (*LoginDisconnect) Bound() Bound  { return S2C }

func (p *LoginDisconnect) Read(buf *ns.PacketBuffer) error {
	v, err := buf.ReadString(262144)
	p.Reason = v
	return err
}

func (p *LoginDisconnect) Write(buf *ns.PacketBuffer) error {
	return buf.WriteString(p.Reason)
}

// LoginAcknowledged (C2S, 0x03): the client confirms LoginSuccess and
// switches to Configuration. Carries no fields.
type LoginAcknowledged struct{}

func (*LoginAcknowledged) ID() ns.VarInt               { return 0x03 }
func (*LoginAcknowledged) State() State                { return StateLogin }
func (*LoginAcknowledged) Bound() Bound                 { return C2S }
func (*LoginAcknowledged) Read(*ns.PacketBuffer) error  { return nil }
func (*LoginAcknowledged) Write(*ns.PacketBuffer) error { return nil }
