package protocol

import (
	"crypto/rand"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/auth"
	"github.com/tn-lorenz/SteelMC/internal/mcrypto"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

// serveLogin runs LoginStart through, depending on server.online_mode,
// either the encryption/session-server exchange or a trusted offline
// UUID, then optional compression, LoginSuccess, and waits for
// LoginAcknowledged before handing off to Configuration.
func (c *Connection) serveLogin(handshake *packets.Handshake) error {
	if handshake.ProtocolVersion != packets.ProtocolVersion {
		_ = c.Disconnect(fmt.Sprintf("Incompatible client; server is on protocol %d", packets.ProtocolVersion))
		return fmt.Errorf("protocol mismatch: client sent %d", handshake.ProtocolVersion)
	}

	start := &packets.LoginStart{}
	if err := c.readExpected(start); err != nil {
		return fmt.Errorf("login start: %w", err)
	}
	username := string(start.Name)

	var uuid ns.UUID
	if c.cfg.Server.OnlineMode {
		var err error
		uuid, err = c.authenticateOnline(username)
		if err != nil {
			_ = c.Disconnect(err.Error())
			return fmt.Errorf("online-mode auth for %s: %w", username, err)
		}
	} else {
		uuid = auth.OfflineUUID(username)
	}

	if threshold := c.cfg.Server.CompressionThreshold; threshold >= 0 {
		if err := c.pipeline.WriteFrame(&packets.LoginCompression{Threshold: ns.VarInt(threshold)}); err != nil {
			return fmt.Errorf("send login compression: %w", err)
		}
		c.pipeline.SetWriteCompression(threshold)
		c.pipeline.SetReadCompression(threshold)
	}

	if err := c.pipeline.WriteFrame(&packets.LoginSuccess{UUID: uuid, Username: ns.String(username)}); err != nil {
		return fmt.Errorf("send login success: %w", err)
	}

	if err := c.readExpected(&packets.LoginAcknowledged{}); err != nil {
		return fmt.Errorf("login acknowledged: %w", err)
	}

	c.state = packets.StateConfiguration
	profile := ns.GameProfile{UUID: uuid, Username: ns.String(username)}
	return c.serveConfiguration(profile)
}

// authenticateOnline runs the EncryptionRequest/EncryptionResponse
// exchange, enables the pipeline's cipher, and verifies the session
// with Mojang's session server, returning the authenticated UUID.
func (c *Connection) authenticateOnline(username string) (ns.UUID, error) {
	verifyToken := make([]byte, 4)
	if _, err := rand.Read(verifyToken); err != nil {
		return ns.UUID{}, fmt.Errorf("generate verify token: %w", err)
	}
	serverID := "" // vanilla has sent an empty server ID since 1.7

	req := &packets.EncryptionRequest{
		ServerID:    ns.String(serverID),
		PublicKey:   c.serverKeyDER,
		VerifyToken: verifyToken,
	}
	if err := c.pipeline.WriteFrame(req); err != nil {
		return ns.UUID{}, fmt.Errorf("send encryption request: %w", err)
	}

	resp := &packets.EncryptionResponse{}
	if err := c.readExpected(resp); err != nil {
		return ns.UUID{}, fmt.Errorf("encryption response: %w", err)
	}

	sharedSecret, err := mcrypto.DecryptWithPrivateKey(c.serverKey, resp.SharedSecret)
	if err != nil {
		return ns.UUID{}, fmt.Errorf("decrypt shared secret: %w", err)
	}
	decryptedToken, err := mcrypto.DecryptWithPrivateKey(c.serverKey, resp.VerifyToken)
	if err != nil {
		return ns.UUID{}, fmt.Errorf("decrypt verify token: %w", err)
	}
	if string(decryptedToken) != string(verifyToken) {
		return ns.UUID{}, fmt.Errorf("verify token mismatch")
	}

	c.pipeline.Encryption().SetSharedSecret(sharedSecret)
	if err := c.pipeline.EnableEncryption(); err != nil {
		return ns.UUID{}, fmt.Errorf("enable encryption: %w", err)
	}

	serverHash := auth.ComputeServerHash(serverID, sharedSecret, c.serverKeyDER)
	host, _, err := net.SplitHostPort(c.pipeline.RemoteAddr().String())
	if err != nil {
		host = ""
	}
	joined, err := c.sessionClient.HasJoined(username, serverHash, host)
	if err != nil {
		return ns.UUID{}, fmt.Errorf("session server: %w", err)
	}
	if joined == nil {
		return ns.UUID{}, fmt.Errorf("failed to verify username %q with session server", username)
	}

	uuid, err := ns.UUIDFromString(joined.ID)
	if err != nil {
		return ns.UUID{}, fmt.Errorf("parse session server uuid: %w", err)
	}

	c.log.Info("authenticated player", zap.String("username", username), zap.String("uuid", uuid.String()))
	return uuid, nil
}
