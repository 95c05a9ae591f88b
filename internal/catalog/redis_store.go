// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/reconhq/recon/internal/models"
)

// RedisTaxonomyStore shares the genre taxonomy between instances through a
// single Redis key holding a JSON object of id to name.
type RedisTaxonomyStore struct {
	client *redis.Client
	key    string
}

// NewRedisTaxonomyStore connects to the Redis instance described by rawURL
// (redis://[:password@]host:port/db).
func NewRedisTaxonomyStore(rawURL, key string) (*RedisTaxonomyStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisTaxonomyStoreWithClient(redis.NewClient(opts), key), nil
}

// NewRedisTaxonomyStoreWithClient uses an existing client.
func NewRedisTaxonomyStoreWithClient(client *redis.Client, key string) *RedisTaxonomyStore {
	if key == "" {
		key = "recon:genres:movie"
	}
	return &RedisTaxonomyStore{client: client, key: key}
}

// Load implements SharedTaxonomyStore.
func (s *RedisTaxonomyStore) Load(ctx context.Context) (models.GenreTaxonomy, time.Duration, error) {
	var (
		get *redis.StringCmd
		ttl *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, s.key)
		ttl = p.TTL(ctx, s.key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrTaxonomyNotCached
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis load %s: %w", s.key, err)
	}

	data, err := get.Bytes()
	if err != nil {
		return nil, 0, fmt.Errorf("redis load %s: %w", s.key, err)
	}

	var taxonomy models.GenreTaxonomy
	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return nil, 0, fmt.Errorf("redis load %s: corrupt entry: %w", s.key, err)
	}
	return taxonomy, ttl.Val(), nil
}

// Save implements SharedTaxonomyStore.
func (s *RedisTaxonomyStore) Save(ctx context.Context, taxonomy models.GenreTaxonomy, ttl time.Duration) error {
	data, err := json.Marshal(taxonomy)
	if err != nil {
		return fmt.Errorf("failed to encode taxonomy: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis save %s: %w", s.key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisTaxonomyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *RedisTaxonomyStore) Close() error {
	return s.client.Close()
}
