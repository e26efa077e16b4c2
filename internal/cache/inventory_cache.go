package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
)

const inventorySnapshotKey = "bloodbank:inventory:snapshot"

// InventoryCache holds the full inventory listing. A nil *InventoryCache is a
// valid, disabled cache. Failures are logged and treated as misses.
//
// Every Invalidate bumps a local generation. A reader that captured the
// generation before querying the store only fills the cache if no
// invalidation happened in between. Writes made by other instances are not
// seen here, so their listings may lag by up to ttl.
type InventoryCache struct {
	kv  KV
	ttl time.Duration

	// mu orders generation checks against invalidations.
	mu  sync.Mutex
	gen uint64
}

func NewInventoryCache(kv KV, ttl time.Duration) *InventoryCache {
	return &InventoryCache{kv: kv, ttl: ttl}
}

func (c *InventoryCache) Load(ctx context.Context) ([]models.InventoryEntry, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}
	raw, err := c.kv.Get(ctx, inventorySnapshotKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("inventory cache read failed", "error", err)
		}
		return nil, false
	}
	var entries []models.InventoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("inventory cache entry corrupt", "error", err)
		return nil, false
	}
	return entries, true
}

// Generation identifies the current invalidation epoch; pass it to StoreIfCurrent.
func (c *InventoryCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// StoreIfCurrent stores entries unless Invalidate ran after gen was taken.
func (c *InventoryCache) StoreIfCurrent(ctx context.Context, gen uint64, entries []models.InventoryEntry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.Store(ctx, entries)
}

func (c *InventoryCache) Store(ctx context.Context, entries []models.InventoryEntry) {
	if c == nil || c.kv == nil {
		return
	}
	b, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("inventory cache encode failed", "error", err)
		return
	}
	if err := c.kv.Set(ctx, inventorySnapshotKey, string(b), c.ttl); err != nil {
		slog.Warn("inventory cache write failed", "error", err)
	}
}

func (c *InventoryCache) Invalidate(ctx context.Context) {
	if c == nil || c.kv == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if err := c.kv.Del(ctx, inventorySnapshotKey); err != nil {
		slog.Warn("inventory cache invalidation failed", "error", err)
	}
}
