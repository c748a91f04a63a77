package classifier

import (
	"sync"

	"github.com/aleister1102/pkgdelta/internal/models"
)

// Cache memoizes classification verdicts for one comparison run. It is an
// explicit per-run object rather than a process-wide table so concurrent
// runs in one process never share state.
type Cache struct {
	mu      sync.RWMutex
	formats map[string]models.FormatTag
}

// NewCache creates an empty per-run cache.
func NewCache() *Cache {
	return &Cache{
		formats: make(map[string]models.FormatTag),
	}
}

// Get returns a memoized verdict for a logical path.
func (c *Cache) Get(logicalPath string) (models.FormatTag, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tag, ok := c.formats[logicalPath]
	return tag, ok
}

// Put memoizes a verdict for a logical path.
func (c *Cache) Put(logicalPath string, tag models.FormatTag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formats[logicalPath] = tag
}

// Len returns the number of memoized paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.formats)
}
