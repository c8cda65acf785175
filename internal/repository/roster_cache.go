package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

// RosterLookup is the read surface imports use to resolve identities.
type RosterLookup interface {
	FindByNationalID(ctx context.Context, dni string) (*models.RosterRecord, error)
	SearchByName(ctx context.Context, name string) (*models.RosterRecord, error)
}

// CachedRosterLookup is a read-through Redis cache in front of roster
// lookups. Import jobs hit the roster once per sheet row, so repeated
// files for the same period are served mostly from cache. A nil client
// degrades to pass-through.
type CachedRosterLookup struct {
	next   RosterLookup
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRosterLookup wraps a roster lookup with caching.
func NewCachedRosterLookup(next RosterLookup, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRosterLookup {
	return &CachedRosterLookup{next: next, client: client, ttl: ttl, logger: logger}
}

// FindByNationalID resolves a DNI, preferring the cache.
func (c *CachedRosterLookup) FindByNationalID(ctx context.Context, dni string) (*models.RosterRecord, error) {
	key := fmt.Sprintf("roster:dni:%s", dni)
	if rec, err := c.get(ctx, key); err == nil {
		return rec, nil
	}
	rec, err := c.next.FindByNationalID(ctx, dni)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, rec)
	return rec, nil
}

// SearchByName resolves a full name, preferring the cache.
func (c *CachedRosterLookup) SearchByName(ctx context.Context, name string) (*models.RosterRecord, error) {
	key := fmt.Sprintf("roster:name:%s", strings.ToLower(strings.TrimSpace(name)))
	if rec, err := c.get(ctx, key); err == nil {
		return rec, nil
	}
	rec, err := c.next.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, rec)
	return rec, nil
}

// Invalidate drops every cached roster entry. Called after roster writes.
func (c *CachedRosterLookup) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "roster:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan roster keys: %w", err)
	}
	return nil
}

func (c *CachedRosterLookup) get(ctx context.Context, key string) (*models.RosterRecord, error) {
	if c.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("roster cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, appErrors.ErrCacheMiss
	}
	var rec models.RosterRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, appErrors.ErrCacheMiss
	}
	return &rec, nil
}

func (c *CachedRosterLookup) set(ctx context.Context, key string, rec *models.RosterRecord) {
	if c.client == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("roster cache write failed", zap.String("key", key), zap.Error(err))
	}
}
