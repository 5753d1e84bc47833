package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Private key used by the demo script.
const demoPrivKey = "8b6f7cb3ebcfcb25fbed289d00399012bed7157c58699f6f2412afc32f953b22"

func TestKeypairFromHexIsStable(t *testing.T) {
	a, err := KeypairFromHex(demoPrivKey)
	require.NoError(t, err)
	b, err := KeypairFromHex(demoPrivKey)
	require.NoError(t, err)

	assert.Equal(t, a.PublicIdentity(), b.PublicIdentity())
	assert.Equal(t, demoPrivKey, a.PrivateKeyHex())
	assert.Len(t, a.Fingerprint(), 40)
}

func TestKeypairFromHexRejectsBadInput(t *testing.T) {
	_, err := KeypairFromHex("zz")
	assert.Error(t, err)

	_, err = KeypairFromHex("abcd")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	kp := newTestKeypair(t)
	other := newTestKeypair(t)
	msg := digest([]byte("hello"))

	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	assert.True(t, Verify(msg, sig, kp.PublicIdentity()))
	assert.False(t, Verify(msg, sig, other.PublicIdentity()))
	assert.False(t, Verify(digest([]byte("bye")), sig, kp.PublicIdentity()))
	assert.False(t, Verify(msg, "not hex", kp.PublicIdentity()))
	assert.False(t, Verify(msg, "3006020101020101", kp.PublicIdentity()))
	assert.False(t, Verify(msg, sig, "0OIl"))
}

func TestSignRejectsEmptyDigest(t *testing.T) {
	kp := newTestKeypair(t)
	_, err := kp.Sign(nil)
	assert.Error(t, err)
}
