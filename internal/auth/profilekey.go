package auth

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"
)

// mojangSigningKeyPEM is Mojang's well-known RSA public key used to sign
// every player session's chat-signing profile key. It never rotates
// across Mojang accounts; only the per-session key it signs does.
// https://minecraft.wiki/w/Mojang_API#Signature_Validation
const mojangSigningKeyPEM = `-----BEGIN PUBLIC KEY-----
MIICIjANBgkqhkiG9w0BAQEFAAOCAg8AMIICCgKCAgEAylB4B6m9qLsCkE3cs123
EC2ac1oU0EYgIdVuxddEbuyvYmfjq1b35mCp0BO0Yn17lPsbsQv7J1SQyoYWK/K9
gdnWnwYAyz0lnUCe8dCu4vOZPIeNUvlK+R6w/X64SBNnx1NqkxlL2qv7+w5/c83z
9UKJ7IV1dqa4EInlOJfAo8mu5YgBA/BoXl6hKo+QTXKk9ZJzKd2BnUIw9fQ38iHl
ihHXWNclWKWgl/ktbIXCqCOCGfxfW3jNtZ0NBhX3/E5g8S9cnWNWLgqXV0p2LMJq
QuCD5hKJkKuMYe8mzYfKQqk+OwzYJ/4uDEWBNFqs7+Zi1p+5q2XvfOiW3fe4qX9N
u3vVaPLmVz38Te+nPBWQd2tjdBbtzgJ09zf8whVfIhCX9hXxXtyI1ejy0DaGj2HR
i+UcvrtybM8mzsTAs/2qAzJjdjnCQBp6CgJGKHsN+qGlb6m5I3ZmakR7bv58bKAH
/0rulzHpcWrZd+UaRKEAuspW2AdaOowPzfo+C8vgQl1OQuV9TpFoNGQcXYpZ9KVs
WVNXlCoWUgKcpkwEhI05Ol9YLpQZXBKpqzUb1x0vPJG2KCo7yPzlb1WZBHlFs1Qx
lI1G4YmvXvbBZPeiiykYhzXRVMFvs7CqqjU3xH4z4xb8DTVnkbcgjgmbp2IQLlR7
DcBeVZ2BVh2mdVu5ub8CAwEAAQ==
-----END PUBLIC KEY-----`

// ProfileKey is a client-presented chat-signing public key and Mojang's
// attestation that it belongs to the session's account.
type ProfileKey struct {
	ExpiresAt       time.Time
	PublicKey       *rsa.PublicKey
	PublicKeyDER    []byte // SPKI DER, as presented over the wire
	MojangSignature []byte
}

// VerifyProfileKey checks that a client-presented profile public key
// carries a valid Mojang signature over (expiresAt, publicKeyDER) and
// has not expired. This is the server-side counterpart of what the
// client obtained by calling Mojang's /player/certificates endpoint —
// the server never calls that endpoint itself, it only verifies what
// the client already has.
func VerifyProfileKey(expiresAtUnixMillis int64, publicKeyDER, mojangSignature []byte) (*ProfileKey, error) {
	expiresAt := time.UnixMilli(expiresAtUnixMillis)
	if time.Now().After(expiresAt) {
		return nil, fmt.Errorf("profile key expired at %s", expiresAt)
	}

	mojangKey, err := mojangSigningPublicKey()
	if err != nil {
		return nil, fmt.Errorf("load Mojang signing key: %w", err)
	}

	signedPayload := profileKeySignedPayload(expiresAtUnixMillis, publicKeyDER)
	digest := sha1.Sum(signedPayload)
	if err := rsa.VerifyPKCS1v15(mojangKey, crypto.SHA1, digest[:], mojangSignature); err != nil {
		return nil, fmt.Errorf("invalid Mojang signature on profile key: %w", err)
	}

	pub, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return nil, fmt.Errorf("parse profile public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("profile public key is not RSA")
	}

	return &ProfileKey{
		ExpiresAt:       expiresAt,
		PublicKey:       rsaPub,
		PublicKeyDER:    publicKeyDER,
		MojangSignature: mojangSignature,
	}, nil
}

// profileKeySignedPayload reproduces the byte sequence Mojang signs when
// it issues a profile key: the decimal milliseconds expiry timestamp as
// an ASCII string, followed by the raw SPKI DER public key bytes.
func profileKeySignedPayload(expiresAtUnixMillis int64, publicKeyDER []byte) []byte {
	ts := fmt.Sprintf("%d", expiresAtUnixMillis)
	payload := make([]byte, 0, len(ts)+len(publicKeyDER))
	payload = append(payload, ts...)
	payload = append(payload, publicKeyDER...)
	return payload
}

func mojangSigningPublicKey() (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(mojangSigningKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("failed to decode embedded Mojang signing key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("embedded Mojang signing key is not RSA")
	}
	return rsaPub, nil
}
