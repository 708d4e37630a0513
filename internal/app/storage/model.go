package storage

import (
	"time"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
	"github.com/google/uuid"
)

type ArchivedWallet struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID                  uuid.UUID `gorm:"type:uuid;index;not null"`
	Position                 int       `gorm:"not null"`
	Mnemonics                string    `gorm:"not null"`
	Address                  string    `gorm:"not null;uniqueIndex"`
	AddressBounceableURLSafe string    `gorm:"not null"`
	PublicKey                string    `gorm:"type:varchar(64);not null"`
	PrivateKey               string    `gorm:"type:varchar(128);not null"`
	Base64BOC                string    `gorm:"not null"`
	CreationDate             string    `gorm:"type:varchar(19);not null"`
	CreatedAt                time.Time `gorm:"autoCreateTime"`
}

func toArchived(batchID uuid.UUID, records []chain.WalletRecord) []ArchivedWallet {
	rows := make([]ArchivedWallet, 0, len(records))
	for i, rec := range records {
		rows = append(rows, ArchivedWallet{
			ID:                       uuid.New(),
			BatchID:                  batchID,
			Position:                 i + 1,
			Mnemonics:                rec.Mnemonics,
			Address:                  rec.Address,
			AddressBounceableURLSafe: rec.AddressBounceableURLSafe,
			PublicKey:                rec.PublicKey,
			PrivateKey:               rec.PrivateKey,
			Base64BOC:                rec.Base64BOC,
			CreationDate:             rec.CreationDate,
		})
	}
	return rows
}

func (w ArchivedWallet) Record() chain.WalletRecord {
	return chain.WalletRecord{
		Mnemonics:                w.Mnemonics,
		Address:                  w.Address,
		AddressBounceableURLSafe: w.AddressBounceableURLSafe,
		PublicKey:                w.PublicKey,
		PrivateKey:               w.PrivateKey,
		Base64BOC:                w.Base64BOC,
		CreationDate:             w.CreationDate,
	}
}
