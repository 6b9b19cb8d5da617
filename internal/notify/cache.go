// Package notify holds the notification bell core: the cached unread
// count, the pulse cue, and the synchronizer that reconciles both with the
// backend and produces render-ready views.
package notify

import (
	"context"
	"strconv"
	"strings"

	"github.com/nhle/campuscalm-widgets/internal/kvstore"
)

// UnreadCacheKey is the storage key of the last known unread count. It is
// shared by every locale.
const UnreadCacheKey = "campuscalm_bell_unread_count_v1"

// Cache persists the last known unread count for the session.
type Cache struct {
	kv *kvstore.BestEffort
}

// NewCache creates a cache on top of the session store.
func NewCache(kv *kvstore.BestEffort) *Cache {
	return &Cache{kv: kv}
}

// Read returns the persisted count. ok is false when nothing was persisted
// or the stored value is not an integer.
func (c *Cache) Read(ctx context.Context) (count int, ok bool) {
	raw, found := c.kv.Read(ctx, UnreadCacheKey)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Write persists count. Failures are reported to the store's hook only.
func (c *Cache) Write(ctx context.Context, count int) {
	c.kv.Write(ctx, UnreadCacheKey, strconv.Itoa(count))
}
