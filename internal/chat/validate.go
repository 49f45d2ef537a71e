package chat

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/player"
	"github.com/tn-lorenz/SteelMC/internal/protoerr"
)

// Decision is the outcome of validating one incoming ChatMessage.
type Decision struct {
	// Broadcast is the packet to fan out to every player, or nil if the
	// message was dropped.
	Broadcast packets.Packet
	// Err is set when validation failed, even if Broadcast is non-nil
	// (a downgrade still records the reason it downgraded).
	Err error
}

// Validate runs the five-step signed chat pipeline against msg from
// sender, using now as the server's clock. It never mutates sender's
// chain except on full acceptance.
func Validate(sender *player.Player, msg *packets.ChatMessage, cfg Config, now time.Time) Decision {
	ts := time.UnixMilli(int64(msg.Timestamp))

	// Step 1: reject messages timestamped too far in the past or future.
	if ts.Before(now.Add(-cfg.GracePast)) || ts.After(now.Add(cfg.GraceFuture)) {
		return reject(sender, cfg, protoerr.ErrProtocolViolation, "timestamp out of range")
	}

	sig, hasSig := msg.Signature.Get()

	// Step 2: a replay of an already-accepted message — whether its
	// timestamp fails to strictly advance the chain, or its signature
	// matches one already in the chain's recent history (a resend that
	// arrived after later messages moved the chain past it) — is
	// dropped outright rather than run through the reject policy: a
	// resent packet must never produce a second broadcast, downgraded
	// or not.
	if sender.Chain != nil {
		last := sender.Chain.LastTimestamp()
		if !last.IsZero() && !ts.After(last) {
			return Decision{Err: protoerr.ErrProtocolViolation}
		}
		if hasSig && sender.Chain.Seen(sig) {
			return Decision{Err: protoerr.ErrProtocolViolation}
		}
	}

	if sender.Key == nil || !hasSig {
		return reject(sender, cfg, protoerr.ErrProtocolViolation, "no signature on this session")
	}

	index := sender.Chain.NextIndex()

	// Step 3: verify the RSA signature over the canonical payload.
	payload := canonicalPayload(sender, index, msg, ts)
	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(sender.Key.PublicKey, crypto.SHA256, digest[:], sig); err != nil {
		return reject(sender, cfg, protoerr.ErrProtocolViolation, "bad chat signature")
	}

	// Step 4: accept — append to the chain and build the signed relay.
	sender.Chain.Append(index, sig, ts)

	senderNameJSON, _ := json.Marshal(netcode.NewTextComponent(string(sender.Profile.Username)))

	return Decision{Broadcast: &packets.PlayerChatMessage{
		SenderUUID:      netcode.UUID(sender.UUID()),
		Index:           netcode.VarInt(index),
		Signature:       netcode.Some(netcode.ByteArray(sig)),
		Message:         msg.Message,
		Timestamp:       msg.Timestamp,
		Salt:            msg.Salt,
		UnsignedContent: netcode.None[netcode.String](),
		FilterMaskType:  0,
		ChatTypeID:      1,
		SenderName:      netcode.String(senderNameJSON),
	}}
}

// reject applies the configured policy to a failed message: strict
// drops it, downgrade relays it as an unsigned system chat line.
func reject(sender *player.Player, cfg Config, err error, reason string) Decision {
	if cfg.Policy == PolicyStrict {
		return Decision{Err: err}
	}

	text := netcode.TextComponent{Text: "<" + string(sender.Profile.Username) + "> [unverified] " + reason}
	content, _ := json.Marshal(text)
	return Decision{
		Err: err,
		Broadcast: &packets.SystemChatMessage{
			Content: netcode.String(content),
			Overlay: false,
		},
	}
}

// canonicalPayload reproduces the byte sequence a chat-signing client
// signs: the chain's previous signature, the sender's identity, the
// message index/salt/timestamp, the message body, and the raw
// acknowledgement bitset the client committed to. Reconstructing the
// full last_seen list (the actual sender/signature pairs each
// acknowledged bit refers to) would require caching every other
// session's recently broadcast signatures server-side; this folds in
// only the bitset bytes themselves, which is enough to bind a
// signature to a specific acknowledgement state without that cache,
// and is recorded as a known simplification in the design notes.
func canonicalPayload(sender *player.Player, index int32, msg *packets.ChatMessage, ts time.Time) []byte {
	var buf []byte
	buf = append(buf, sender.Chain.PreviousSignature()...)

	senderUUID := sender.UUID()
	buf = append(buf, senderUUID[:]...)
	buf = append(buf, sender.Chain.SessionID[:]...)

	var idxBuf [4]byte
	binary.BigEndian.PutUint32(idxBuf[:], uint32(index))
	buf = append(buf, idxBuf[:]...)

	var saltBuf [8]byte
	binary.BigEndian.PutUint64(saltBuf[:], uint64(msg.Salt))
	buf = append(buf, saltBuf[:]...)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(ts.UnixMilli()))
	buf = append(buf, tsBuf[:]...)

	buf = append(buf, []byte(msg.Message)...)
	buf = append(buf, msg.Acknowledged.Bytes()...)
	return buf
}
