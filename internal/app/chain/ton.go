package chain

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const (
	// wallet_id used by v3/v4 contracts on the basechain, offset by workchain
	defaultSubwallet uint32 = 698983191
	// valid_until of the deploy message, never expires
	initValidUntil uint64 = 0xFFFFFFFF

	TimestampLayout = "2006-01-02 15:04:05"
)

type WalletRecord struct {
	Mnemonics                string `json:"mnemonics"`
	Address                  string `json:"address"`
	AddressBounceableURLSafe string `json:"address_bounceable_url_safe"`
	PublicKey                string `json:"public_key"`
	PrivateKey               string `json:"private_key"`
	Base64BOC                string `json:"base64_boc"`
	CreationDate             string `json:"creation_date"`
}

// DerivationError reports a failure inside the wallet SDK while deriving a record.
type DerivationError struct {
	Op  string
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("wallet derivation failed at %s: %v", e.Op, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

type Builder struct {
	api     wallet.TonAPI
	testnet bool
	now     func() time.Time
}

type Option func(*Builder)

// WithClock overrides the time source used for creation_date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithTestnetAddress controls the testnet flag of the bounceable address.
func WithTestnetAddress(testnet bool) Option {
	return func(b *Builder) {
		b.testnet = testnet
	}
}

// NewBuilder returns a builder bound to api. The client is only handed to the
// SDK wallet constructor; no network request is made while building records.
func NewBuilder(api wallet.TonAPI, opts ...Option) *Builder {
	b := &Builder{
		api:     api,
		testnet: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewMnemonic returns fresh 24-word seed words.
func (b *Builder) NewMnemonic() []string {
	return wallet.NewSeed()
}

func (b *Builder) Build(words []string, version Version, workchain int) (WalletRecord, error) {
	ver, ok := version.sdk()
	if !ok {
		return WalletRecord{}, &DerivationError{Op: "version", Err: fmt.Errorf("unsupported wallet version %s", version)}
	}
	if workchain != 0 && workchain != -1 {
		return WalletRecord{}, &DerivationError{Op: "workchain", Err: fmt.Errorf("unsupported workchain %d", workchain)}
	}

	w, err := wallet.FromSeed(b.api, words, ver)
	if err != nil {
		return WalletRecord{}, &DerivationError{Op: "seed", Err: err}
	}
	privateKey := w.PrivateKey()
	publicKey := privateKey.Public().(ed25519.PublicKey)

	subwallet := uint32(int64(defaultSubwallet) + int64(workchain))
	stateInit, err := wallet.GetStateInit(publicKey, ver, subwallet)
	if err != nil {
		return WalletRecord{}, &DerivationError{Op: "state init", Err: err}
	}
	stateInitCell, err := tlb.ToCell(stateInit)
	if err != nil {
		return WalletRecord{}, &DerivationError{Op: "state init", Err: err}
	}
	hash := stateInitCell.Hash()

	msg, err := initExternalMessage(privateKey, version, subwallet, address.NewAddress(0, byte(workchain), hash), stateInit)
	if err != nil {
		return WalletRecord{}, &DerivationError{Op: "init message", Err: err}
	}

	return WalletRecord{
		Mnemonics:                strings.Join(words, " "),
		Address:                  address.NewAddress(0, byte(workchain), hash).StringRaw(),
		AddressBounceableURLSafe: address.NewAddress(0, byte(workchain), hash).Bounce(true).Testnet(b.testnet).String(),
		PublicKey:                hex.EncodeToString(publicKey),
		PrivateKey:               hex.EncodeToString(privateKey),
		Base64BOC:                base64.StdEncoding.EncodeToString(msg.ToBOCWithFlags(false)),
		CreationDate:             b.now().Format(TimestampLayout),
	}, nil
}

func initExternalMessage(key ed25519.PrivateKey, version Version, subwallet uint32, dst *address.Address, stateInit *tlb.StateInit) (*cell.Cell, error) {
	payload := cell.BeginCell().
		MustStoreUInt(uint64(subwallet), 32).
		MustStoreUInt(initValidUntil, 32).
		MustStoreUInt(0, 32) // seqno
	if version.hasOp() {
		payload.MustStoreUInt(0, 8)
	}

	signature := ed25519.Sign(key, payload.EndCell().Hash())
	body := cell.BeginCell().
		MustStoreSlice(signature, 512).
		MustStoreBuilder(payload).
		EndCell()

	return tlb.ToCell(&tlb.ExternalMessage{
		DstAddr:   dst,
		StateInit: stateInit,
		Body:      body,
	})
}

// VerifyAddresses reports whether the raw address and the user-friendly
// bounceable one of rec point to the same workchain and account.
func VerifyAddresses(rec WalletRecord) (bool, error) {
	plain, err := address.ParseRawAddr(rec.Address)
	if err != nil {
		return false, fmt.Errorf("parse raw address: %w", err)
	}
	bounceable, err := address.ParseAddr(rec.AddressBounceableURLSafe)
	if err != nil {
		return false, fmt.Errorf("parse bounceable address: %w", err)
	}
	return plain.Workchain() == bounceable.Workchain() && bytes.Equal(plain.Data(), bounceable.Data()), nil
}
