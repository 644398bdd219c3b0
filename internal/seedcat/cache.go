package seedcat

import "sync"

// Snapshot bundles the parse and generation output for one seed version.
type Snapshot struct {
	Version    string
	Result     ParseResult
	Candidates []Candidate
}

// Cache memoizes the latest snapshot, keyed by seed version. The synchronizer
// owns the instance; re-parsing only happens when the version changes.
type Cache struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewCache() *Cache { return &Cache{} }

func (c *Cache) Get(version string) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil || c.snap.Version != version {
		return nil, false
	}
	return c.snap, true
}

func (c *Cache) Put(snap *Snapshot) {
	if snap == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}
