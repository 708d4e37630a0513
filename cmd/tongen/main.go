package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/config"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/generator"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/metrics"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

func main() {
	configuration, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatal(err)
	}

	logger, err := configureLogger(configuration)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = execute(ctx, configuration, logger, os.Args[1:], os.Stdout)
	stop()

	if err != nil {
		entry := logger.WithError(err)
		var derr *chain.DerivationError
		if errors.As(err, &derr) {
			entry = entry.WithField("op", derr.Op)
		}
		entry.Fatal("wallet generation failed")
	}
}

// execute runs one invocation and releases everything it opened before
// returning, so the caller may exit right after.
func execute(ctx context.Context, configuration *config.Configuration, logger *logrus.Logger, args []string, out io.Writer) error {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// never connected: the wallet package only keeps the client for later sends
	pool := liteclient.NewConnectionPool()
	api := ton.NewAPIClient(pool)
	builder := chain.NewBuilder(api, chain.WithTestnetAddress(configuration.TestnetAddress))

	gen := generator.NewGenerator(configuration, logger, builder, out, m)

	if configuration.ArchiveEnabled && (len(args) == 0 || args[0] != generator.ModeSingle) {
		db, err := storage.Connect(configuration, logger)
		if err != nil {
			return fmt.Errorf("archive unavailable: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.WithError(err).Warn("archive close failed")
			}
		}()
		gen.SetArchive(db)
	}

	runErr := gen.Run(ctx, args)

	if configuration.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(configuration.MetricsTextfile, registry); err != nil {
			err = fmt.Errorf("write metrics textfile: %w", err)
			if runErr != nil {
				logger.WithError(err).Error("metrics textfile write failed")
				return runErr
			}
			return err
		}
	}

	return runErr
}

func configureLogger(cfg *config.Configuration) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "2006-01-02 15:04:05.000"

	logger.SetOutput(os.Stderr)
	logger.SetFormatter(formatter)
	logger.SetLevel(level)
	return logger, nil
}
