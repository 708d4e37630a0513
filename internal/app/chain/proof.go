package chain

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

const (
	tonProofPrefix   = "ton-proof-item-v2/"
	tonConnectPrefix = "ton-connect"
)

type ProofDomain struct {
	LengthBytes uint32 `json:"lengthBytes"`
	Value       string `json:"value"`
}

type Proof struct {
	Timestamp int64       `json:"timestamp"`
	Domain    ProofDomain `json:"domain"`
	Signature string      `json:"signature"`
	Payload   string      `json:"payload"`
}

// ProofItem is the ton_proof item a wallet returns in a TON Connect reply.
type ProofItem struct {
	Name  string `json:"name"`
	Proof Proof  `json:"proof"`
}

// TonProof signs a ton_proof for the manifest host with the record's key.
func TonProof(rec WalletRecord, manifestURL, payload string, now time.Time) (*ProofItem, error) {
	u, err := url.Parse(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest url %q: %w", manifestURL, err)
	}
	domain := u.Hostname()
	if domain == "" {
		return nil, fmt.Errorf("invalid manifest url %q: no host", manifestURL)
	}

	addr, err := address.ParseRawAddr(rec.Address)
	if err != nil {
		return nil, fmt.Errorf("parse address: %w", err)
	}

	rawKey, err := hex.DecodeString(rec.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(rawKey) != ed25519.PrivateKeySize {
		return nil, errors.New("private key must be 64 bytes")
	}

	ts := now.Unix()
	signature := ed25519.Sign(ed25519.PrivateKey(rawKey), ProofDigest(addr, domain, ts, payload))

	return &ProofItem{
		Name: "ton_proof",
		Proof: Proof{
			Timestamp: ts,
			Domain: ProofDomain{
				LengthBytes: uint32(len(domain)),
				Value:       domain,
			},
			Signature: base64.StdEncoding.EncodeToString(signature),
			Payload:   payload,
		},
	}, nil
}

// ProofDigest is the hash a wallet signs for a ton_proof:
// sha256(0xffff ++ "ton-connect" ++ sha256(message)).
func ProofDigest(addr *address.Address, domain string, timestamp int64, payload string) []byte {
	msg := make([]byte, 0, len(tonProofPrefix)+4+32+4+len(domain)+8+len(payload))
	msg = append(msg, tonProofPrefix...)
	msg = binary.BigEndian.AppendUint32(msg, uint32(addr.Workchain()))
	msg = append(msg, addr.Data()...)
	msg = binary.LittleEndian.AppendUint32(msg, uint32(len(domain)))
	msg = append(msg, domain...)
	msg = binary.LittleEndian.AppendUint64(msg, uint64(timestamp))
	msg = append(msg, payload...)
	msgHash := sha256.Sum256(msg)

	full := make([]byte, 0, 2+len(tonConnectPrefix)+len(msgHash))
	full = append(full, 0xff, 0xff)
	full = append(full, tonConnectPrefix...)
	full = append(full, msgHash[:]...)
	digest := sha256.Sum256(full)
	return digest[:]
}
