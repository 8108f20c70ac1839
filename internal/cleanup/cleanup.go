package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kbahtiar/folio/internal/config"
	"github.com/kbahtiar/folio/internal/storage"
	"github.com/kbahtiar/folio/pkg/database"
)

// pendingKey is a sorted set of "bucket/path" members scored by upload time.
const pendingKey = "uploads:pending"

// Sweeper reclaims orphaned storage objects. Uploads happen before the row
// save, so an abandoned edit leaves an object no row references; every upload
// is tracked here and the row save commits it. Objects still pending after
// the TTL get removed by the background sweep.
type Sweeper struct {
	db       *database.Clients
	store    storage.ObjectStore
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(db *database.Clients, store storage.ObjectStore, cfg config.UploadsConfig, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		db:       db,
		store:    store,
		ttl:      cfg.PendingTTL,
		interval: cfg.SweepInterval,
		logger:   logger,
	}
}

// Track records a freshly uploaded object as pending.
func (s *Sweeper) Track(ctx context.Context, bucket, path string) error {
	return s.db.Redis.ZAdd(ctx, pendingKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: member(bucket, path),
	}).Err()
}

// Commit marks an object as referenced by a saved row, excluding it from
// future sweeps. Committing an unknown path is a no-op.
func (s *Sweeper) Commit(ctx context.Context, bucket, path string) error {
	if path == "" {
		return nil
	}
	return s.db.Redis.ZRem(ctx, pendingKey, member(bucket, path)).Err()
}

// Sweep removes every object whose pending entry outlived the TTL and
// returns how many were handled. Removal failures are logged, not retried:
// the entry is dropped either way so a missing object can't wedge the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.ttl).Unix()
	members, err := s.db.Redis.ZRangeByScore(ctx, pendingKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list pending uploads: %w", err)
	}

	for _, m := range members {
		bucket, path, ok := strings.Cut(m, "/")
		if ok {
			if err := s.store.Remove(bucket, path); err != nil {
				s.logger.Error("Failed to remove orphaned upload", "bucket", bucket, "path", path, "error", err)
			} else {
				s.logger.Info("Removed orphaned upload", "bucket", bucket, "path", path)
			}
		}
		if err := s.db.Redis.ZRem(ctx, pendingKey, m).Err(); err != nil {
			s.logger.Error("Failed to drop pending entry", "member", m, "error", err)
		}
	}
	return len(members), nil
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Upload sweeper running", "interval", s.interval, "ttl", s.ttl)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Upload sweeper stopping")
			return
		case <-ticker.C:
			if n, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Sweep failed", "error", err)
			} else if n > 0 {
				s.logger.Info("Sweep completed", "removed", n)
			}
		}
	}
}

func member(bucket, path string) string {
	return bucket + "/" + path
}
