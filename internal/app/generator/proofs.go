package generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
)

type walletProof struct {
	Address string           `json:"address"`
	Proof   *chain.ProofItem `json:"proof"`
}

// writeProofs signs a ton_proof for every wallet against the configured
// manifest, using the signing time in milliseconds as payload.
func (g *Generator) writeProofs(wallets []chain.WalletRecord) error {
	proofs := make([]walletProof, 0, len(wallets))
	for _, rec := range wallets {
		now := time.Now()
		item, err := chain.TonProof(rec, g.configuration.ProofManifestURL, strconv.FormatInt(now.UnixMilli(), 10), now)
		if err != nil {
			return fmt.Errorf("ton proof for %s: %w", rec.Address, err)
		}
		proofs = append(proofs, walletProof{Address: rec.Address, Proof: item})
	}

	if err := writeJSONFile(g.configuration.ProofOutputPath, proofs); err != nil {
		return err
	}
	g.logger.WithField("output", g.configuration.ProofOutputPath).Info("ton proofs written")
	return nil
}
