package auth

import (
	"crypto/md5"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
)

// OfflineUUID derives the UUID an offline-mode (non-authenticated)
// player is assigned, matching Java's
// UUID.nameUUIDFromBytes(("OfflinePlayer:" + name).getBytes()): an
// MD5 digest of the prefixed name with the version and variant bits
// overwritten to mark it as a version-3 (name-based), RFC 4122 UUID.
//
// This is not the same value google/uuid's NewMD5 would produce for
// the same input, since NewMD5 hashes a namespace UUID ahead of the
// name per RFC 4122 while Java's nameUUIDFromBytes hashes the raw
// bytes with no namespace at all.
func OfflineUUID(name string) ns.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // variant RFC 4122
	return ns.UUID(sum)
}
