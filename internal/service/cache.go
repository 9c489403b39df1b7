package service

import (
	"sync"

	"github.com/Dan9191/academy-service/internal/models"
)

// DashboardCache keeps the latest dashboard per account. A refresh takes a
// ticket before loading data and stores with it; a result whose ticket is
// older than the stored one is dropped.
type DashboardCache struct {
	mu      sync.Mutex
	next    uint64
	entries map[string]cacheEntry
}

type cacheEntry struct {
	ticket    uint64
	dashboard *models.Dashboard
}

// NewDashboardCache creates an empty cache
func NewDashboardCache() *DashboardCache {
	return &DashboardCache{entries: make(map[string]cacheEntry)}
}

// Begin returns a ticket newer than every ticket handed out before
func (c *DashboardCache) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

// Store records d for userID unless a newer refresh already did. It reports
// whether d was kept.
func (c *DashboardCache) Store(userID string, ticket uint64, d *models.Dashboard) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[userID]; ok && cur.ticket > ticket {
		return false
	}
	c.entries[userID] = cacheEntry{ticket: ticket, dashboard: d}
	return true
}

// Latest returns the most recent dashboard stored for userID
func (c *DashboardCache) Latest(userID string) (*models.Dashboard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	return e.dashboard, ok
}
