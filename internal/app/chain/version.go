package chain

import "github.com/xssnick/tonutils-go/ton/wallet"

// Version is the wallet contract revision a record is derived for.
type Version int

const (
	V3R1 Version = iota + 1
	V3R2
	V4R1
	V4R2
)

func (v Version) String() string {
	switch v {
	case V3R1:
		return "v3r1"
	case V3R2:
		return "v3r2"
	case V4R1:
		return "v4r1"
	case V4R2:
		return "v4r2"
	default:
		return "unknown"
	}
}

func (v Version) sdk() (wallet.Version, bool) {
	switch v {
	case V3R1:
		return wallet.V3R1, true
	case V3R2:
		return wallet.V3R2, true
	case V4R1:
		return wallet.V4R1, true
	case V4R2:
		return wallet.V4R2, true
	default:
		return 0, false
	}
}

// v4 contracts expect an op byte after seqno in the signed payload.
func (v Version) hasOp() bool {
	return v == V4R1 || v == V4R2
}
