package blockchain

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mr-tron/base58/base58"
)

// Keypair is a secp256k1 signing key. Its public identity is the base58
// encoding of the compressed public key and doubles as the wallet address.
type Keypair struct {
	privateKey *secp256k1.PrivateKey
	identity   string
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("Error generating private key for wallet: %v", err)
	}
	return ConstructKeypair(privateKey), nil
}

// KeypairFromHex restores a keypair from a hex encoded 32 byte private scalar.
func KeypairFromHex(privHex string) (*Keypair, error) {
	privBytes, err := hex.DecodeString(privHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(privBytes) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(privBytes))
	}
	return ConstructKeypair(secp256k1.PrivKeyFromBytes(privBytes)), nil
}

// ConstructKeypair wraps an existing private key.
func ConstructKeypair(privKey *secp256k1.PrivateKey) *Keypair {
	return &Keypair{
		privateKey: privKey,
		identity:   base58.Encode(privKey.PubKey().SerializeCompressed()),
	}
}

func (kp *Keypair) PublicIdentity() string {
	return kp.identity
}

func (kp *Keypair) Fingerprint() string {
	return PublicKeyToFingerprint(kp.privateKey.PubKey().SerializeCompressed())
}

// PrivateKeyHex is the inverse of KeypairFromHex.
func (kp *Keypair) PrivateKeyHex() string {
	return hex.EncodeToString(kp.privateKey.Serialize())
}

// Sign signs a message digest and returns the DER encoded signature as hex.
func (kp *Keypair) Sign(msgDigest []byte) (string, error) {
	if len(msgDigest) == 0 {
		return "", fmt.Errorf("cannot sign empty digest")
	}
	sig := ecdsa.Sign(kp.privateKey, msgDigest)
	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify reports whether sigHex is a valid signature of msgDigest by the
// holder of identity. Malformed signatures or identities never verify.
func Verify(msgDigest []byte, sigHex string, identity string) bool {
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	pubKeyBytes, err := base58.Decode(identity)
	if err != nil {
		return false
	}
	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}

	return sig.Verify(msgDigest, pubKey)
}
