package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/config"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ModeSingle = "single"
	ModeBatch  = "batch"

	walletVersion   = chain.V4R2
	walletWorkchain = 0
)

// WalletBuilder derives wallet records from seed words.
type WalletBuilder interface {
	NewMnemonic() []string
	Build(words []string, version chain.Version, workchain int) (chain.WalletRecord, error)
}

// Archive persists a finished batch.
type Archive interface {
	SaveWallets(ctx context.Context, records []chain.WalletRecord) (uuid.UUID, error)
}

type Generator struct {
	configuration *config.Configuration
	logger        *logrus.Logger
	builder       WalletBuilder
	out           io.Writer
	metrics       *metrics.Metrics
	archive       Archive
}

func NewGenerator(configuration *config.Configuration, log *logrus.Logger, builder WalletBuilder, out io.Writer, m *metrics.Metrics) *Generator {
	return &Generator{
		configuration: configuration,
		logger:        log,
		builder:       builder,
		out:           out,
		metrics:       m,
	}
}

// SetArchive makes batch runs also store their records in a.
func (g *Generator) SetArchive(a Archive) {
	g.archive = a
}

func (g *Generator) Run(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == ModeSingle {
		return g.runSingle()
	}
	return g.runBatch(ctx)
}

func (g *Generator) runSingle() error {
	rec, err := g.generate(ModeSingle)
	if err != nil {
		return err
	}

	js, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	if _, err := fmt.Fprintln(g.out, string(js)); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (g *Generator) runBatch(ctx context.Context) error {
	input := g.configuration.InputPath
	output := g.configuration.OutputPath

	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			g.logger.WithField("input", input).Debug("input file missing")
			_, err = fmt.Fprintf(g.out, "Error: %s not found.\n", input)
			return err
		}
		return fmt.Errorf("stat %s: %w", input, err)
	}

	count, err := countLines(input)
	if err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.BatchSize.Set(float64(count))
	}

	started := time.Now()
	wallets := make([]chain.WalletRecord, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch aborted after %d wallet(s): %w", i, err)
		}
		rec, err := g.generate(ModeBatch)
		if err != nil {
			return err
		}
		wallets = append(wallets, rec)
		if _, err := fmt.Fprintf(g.out, "Generated wallet %d.\n", i+1); err != nil {
			return err
		}
	}

	if err := writeJSONFile(output, wallets); err != nil {
		if g.metrics != nil {
			g.metrics.OutputWrites.WithLabelValues("error").Inc()
		}
		return err
	}
	if g.metrics != nil {
		g.metrics.OutputWrites.WithLabelValues("success").Inc()
	}

	g.logger.WithFields(logrus.Fields{
		"count":   count,
		"output":  output,
		"elapsed": time.Since(started).String(),
	}).Info("batch written")

	if g.configuration.ProofManifestURL != "" {
		if err := g.writeProofs(wallets); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(g.out, "%d wallet(s) successfully generated and saved to '%s'.\n", count, output); err != nil {
		return err
	}

	if g.archive != nil {
		batchID, err := g.archive.SaveWallets(ctx, wallets)
		if err != nil {
			return fmt.Errorf("archive wallets: %w", err)
		}
		g.logger.WithField("batch", batchID).Debug("batch archived")
	}
	return nil
}

func (g *Generator) generate(mode string) (chain.WalletRecord, error) {
	started := time.Now()
	rec, err := g.builder.Build(g.builder.NewMnemonic(), walletVersion, walletWorkchain)
	if err != nil {
		var derr *chain.DerivationError
		if g.metrics != nil && errors.As(err, &derr) {
			g.metrics.DerivationFailures.WithLabelValues(derr.Op).Inc()
		}
		return chain.WalletRecord{}, err
	}

	if g.metrics != nil {
		g.metrics.BuildDuration.Observe(time.Since(started).Seconds())
		g.metrics.WalletsGenerated.WithLabelValues(mode).Inc()
	}
	g.logger.WithFields(logrus.Fields{
		"mode":    mode,
		"address": rec.Address,
		"version": walletVersion.String(),
	}).Debug("wallet derived")
	return rec, nil
}
