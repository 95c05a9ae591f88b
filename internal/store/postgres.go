// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/reconhq/recon/internal/config"
	"github.com/reconhq/recon/internal/logging"
	"github.com/reconhq/recon/internal/metrics"
	"github.com/reconhq/recon/internal/models"
)

const backendPostgres = "postgres"

// WatchlistRow is one tracked movie.
type WatchlistRow struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_watchlist_user_movie;index:idx_watchlist_user_created,priority:1"`
	MovieID    int       `gorm:"not null;uniqueIndex:idx_watchlist_user_movie"`
	MovieTitle *string   `gorm:"column:movie_title"`
	Status     string    `gorm:"not null;default:watchlist"`
	CreatedAt  time.Time `gorm:"not null;index:idx_watchlist_user_created,priority:2,sort:desc"`
}

func (WatchlistRow) TableName() string { return tableWatchlist }

// ExtensionToken maps a SHA-256 token hash to its owner.
type ExtensionToken struct {
	UserID    string    `gorm:"primaryKey"`
	TokenHash string    `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ExtensionToken) TableName() string { return tableExtensionTokens }

// gormWriter forwards gorm's logger output to zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logging.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger() gormLogger.Interface {
	return gormLogger.New(gormWriter{}, gormLogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// OpenPostgres connects to the DSN in cfg and sizes the pool.
func OpenPostgres(cfg *config.StoreConfig) (*gorm.DB, error) {
	if cfg.PostgresDSN == "" {
		return nil, ErrNotConfigured
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

// Migrate creates or updates the store tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&WatchlistRow{}, &ExtensionToken{}); err != nil {
		return fmt.Errorf("migrate store tables: %w", err)
	}
	return nil
}

// GormStore reads history directly from the database.
type GormStore struct {
	db      *gorm.DB
	backend string
	timeout time.Duration
}

// NewGormStore wraps db. backend labels metrics and defaults to "postgres".
func NewGormStore(db *gorm.DB, backend string, timeout time.Duration) *GormStore {
	if backend == "" {
		backend = backendPostgres
	}
	return &GormStore{db: db, backend: backend, timeout: timeout}
}

// ListInteractions returns the user's tracked items, most recent first.
func (s *GormStore) ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) ([]models.InteractionRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []WatchlistRow
	start := time.Now()
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&rows).Error
	s.record(ctx, tableWatchlist, start, err)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	records := make([]models.InteractionRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.InteractionRecord{
			ItemID:  row.MovieID,
			Status:  normalizeStatus(row.Status),
			AddedAt: row.CreatedAt,
		}
		if row.MovieTitle != nil {
			rec.Title = *row.MovieTitle
		}
		records = append(records, rec)
	}
	return records, nil
}

// LookupTokenUser returns the owner of a hashed extension token.
func (s *GormStore) LookupTokenUser(ctx context.Context, tokenHash string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var token ExtensionToken
	start := time.Now()
	err := s.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Take(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.record(ctx, tableExtensionTokens, start, nil)
		return "", ErrTokenNotFound
	}
	s.record(ctx, tableExtensionTokens, start, err)
	if err != nil {
		return "", fmt.Errorf("lookup extension token: %w", err)
	}
	return token.UserID, nil
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

func (s *GormStore) record(ctx context.Context, table string, start time.Time, err error) {
	metrics.RecordStoreQuery(s.backend, table, time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("backend", s.backend).
			Str("table", table).
			Msg("Store query failed")
	}
}
