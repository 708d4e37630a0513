package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Hackathon-Apps/go-ton-gen/internal/app/chain"
	"github.com/Hackathon-Apps/go-ton-gen/internal/app/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 100

type Storage struct {
	configuration *config.Configuration
	conn          *gorm.DB
	log           *logrus.Logger
}

func Connect(cfg *config.Configuration, log *logrus.Logger) (*Storage, error) {
	storage := &Storage{configuration: cfg, log: log}

	conn, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Error("gorm open failed")
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		log.WithError(err).Error("get sql DB failed")
		return nil, err
	}
	for i := 0; i < 12; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := sqlDB.PingContext(ctx)
		cancel()
		if pingErr == nil {
			break
		}
		log.WithFields(logrus.Fields{
			"attempt": i + 1, "host": cfg.DbHost, "port": cfg.DbPort,
		}).Warn("postgres not ready, retrying…")
		time.Sleep(time.Second * time.Duration(i+1))
		if i == 11 {
			log.WithError(pingErr).Error("postgres ping failed")
			return nil, pingErr
		}
	}

	if err := conn.AutoMigrate(&ArchivedWallet{}); err != nil {
		log.WithError(err).Error("archive migration failed")
		return nil, err
	}

	storage.conn = conn
	log.WithFields(logrus.Fields{
		"host": cfg.DbHost, "port": cfg.DbPort, "user": cfg.DbUser, "db": cfg.DbName,
	}).Info("connected to PostgreSQL")
	return storage, nil
}

func dsn(cfg *config.Configuration) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC connect_timeout=5",
		cfg.DbHost, cfg.DbUser, cfg.DbPass, cfg.DbName, cfg.DbPort,
	)
}

// SaveWallets stores records under a fresh batch id in a single transaction
// and returns that id.
func (s *Storage) SaveWallets(ctx context.Context, records []chain.WalletRecord) (uuid.UUID, error) {
	batchID := uuid.New()
	if len(records) == 0 {
		return batchID, nil
	}

	rows := toArchived(batchID, records)
	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.WithFields(logrus.Fields{"batch": batchID, "count": len(rows)}).Info("wallets archived")
	return batchID, nil
}

func (s *Storage) GetBatch(ctx context.Context, batchID uuid.UUID) ([]chain.WalletRecord, error) {
	var rows []ArchivedWallet
	if err := s.conn.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]chain.WalletRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
