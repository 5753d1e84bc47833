package blockchain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/ripemd160"
)

// digest is the single content hash used for transactions and blocks.
func digest(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// appendField writes a length-prefixed field so that adjacent strings cannot run into each other.
func appendField(buf []byte, field string) []byte {
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(field)))
	return append(buf, field...)
}

// PublicKeyToFingerprint hashes the serialized public key with sha256 and then ripemd160,
// giving a short hex id suitable for log lines.
func PublicKeyToFingerprint(pubKey []byte) string {
	sha256Hash := sha256.Sum256(pubKey)
	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	return hex.EncodeToString(ripemd160Hasher.Sum(nil))
}

// IdentityToFingerprint is PublicKeyToFingerprint for a base58 public identity.
// Addresses that are not base58 keys are returned unchanged.
func IdentityToFingerprint(identity string) string {
	pubKey, err := base58.Decode(identity)
	if err != nil || len(pubKey) != secp256k1.PubKeyBytesLenCompressed {
		return identity
	}
	return PublicKeyToFingerprint(pubKey)
}

// shortHash trims a hex digest for log lines.
func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}
