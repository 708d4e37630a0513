package chain

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
)

func TestTonProofSignatureVerifies(t *testing.T) {
	b := newTestBuilder()
	rec, err := b.Build(b.NewMnemonic(), V4R2, 0)
	require.NoError(t, err)

	now := time.Unix(1718000000, 0)
	item, err := TonProof(rec, "https://app.example.org/tonconnect-manifest.json", "1718000000123", now)
	require.NoError(t, err)

	assert.Equal(t, "ton_proof", item.Name)
	assert.EqualValues(t, 1718000000, item.Proof.Timestamp)
	assert.Equal(t, "app.example.org", item.Proof.Domain.Value)
	assert.EqualValues(t, len("app.example.org"), item.Proof.Domain.LengthBytes)
	assert.Equal(t, "1718000000123", item.Proof.Payload)

	addr, err := address.ParseRawAddr(rec.Address)
	require.NoError(t, err)

	// message layout rebuilt field by field
	var msg bytes.Buffer
	msg.WriteString("ton-proof-item-v2/")
	require.NoError(t, binary.Write(&msg, binary.BigEndian, int32(0)))
	msg.Write(addr.Data())
	require.NoError(t, binary.Write(&msg, binary.LittleEndian, uint32(len("app.example.org"))))
	msg.WriteString("app.example.org")
	require.NoError(t, binary.Write(&msg, binary.LittleEndian, int64(1718000000)))
	msg.WriteString("1718000000123")
	msgHash := sha256.Sum256(msg.Bytes())
	digest := sha256.Sum256(append(append([]byte{0xff, 0xff}, "ton-connect"...), msgHash[:]...))

	assert.Equal(t, digest[:], ProofDigest(addr, "app.example.org", 1718000000, "1718000000123"))

	sig, err := base64.StdEncoding.DecodeString(item.Proof.Signature)
	require.NoError(t, err)
	pub, err := hex.DecodeString(rec.PublicKey)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, digest[:], sig))
}

func TestTonProofMasterchainAddress(t *testing.T) {
	b := newTestBuilder()
	rec, err := b.Build(b.NewMnemonic(), V4R2, -1)
	require.NoError(t, err)

	item, err := TonProof(rec, "https://example.org", "p", fixedNow)
	require.NoError(t, err)

	addr, err := address.ParseRawAddr(rec.Address)
	require.NoError(t, err)
	sig, err := base64.StdEncoding.DecodeString(item.Proof.Signature)
	require.NoError(t, err)
	pub, err := hex.DecodeString(rec.PublicKey)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, ProofDigest(addr, "example.org", fixedNow.Unix(), "p"), sig))
}

func TestTonProofErrors(t *testing.T) {
	b := newTestBuilder()
	rec, err := b.Build(b.NewMnemonic(), V4R2, 0)
	require.NoError(t, err)

	_, err = TonProof(rec, "not a url", "p", fixedNow)
	assert.Error(t, err, "no host")

	badAddr := rec
	badAddr.Address = rec.AddressBounceableURLSafe
	_, err = TonProof(badAddr, "https://example.org", "p", fixedNow)
	assert.Error(t, err, "user-friendly address is not raw")

	badKey := rec
	badKey.PrivateKey = "abcd"
	_, err = TonProof(badKey, "https://example.org", "p", fixedNow)
	assert.Error(t, err)
}
