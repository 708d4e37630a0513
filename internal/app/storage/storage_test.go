package storage

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a reachable Postgres, configured through the usual TONGEN_DB_* variables.
func TestSaveWalletsRoundTrip(t *testing.T) {
	if os.Getenv("TONGEN_ARCHIVE_TEST") != "1" {
		t.Skip("set TONGEN_ARCHIVE_TEST=1 and TONGEN_DB_* to run against Postgres")
	}

	cfg, err := config.Load("")
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := Connect(cfg, logger)
	require.NoError(t, err)
	defer db.Close()

	suffix := uuid.NewString()
	records := []chain.WalletRecord{
		{Mnemonics: "a b", Address: "0:" + suffix + "-1", AddressBounceableURLSafe: "kQ1", PublicKey: "01", PrivateKey: "02", Base64BOC: "te6", CreationDate: "2024-01-01 00:00:00"},
		{Mnemonics: "c d", Address: "0:" + suffix + "-2", AddressBounceableURLSafe: "kQ2", PublicKey: "03", PrivateKey: "04", Base64BOC: "te6", CreationDate: "2024-01-01 00:00:01"},
	}

	ctx := context.Background()
	batchID, err := db.SaveWallets(ctx, records)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, batchID)

	got, err := db.GetBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	empty, err := db.GetBatch(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
