package texture

import (
	"image"
	"sync"

	"go.uber.org/zap"
)

// Resolver resolves a texture name to a decoded image, or nil when the
// texture is unknown or unreadable.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are cached too,
// so each file is read at most once.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*image.NRGBA
	index  *Index
	logger *zap.Logger
}

// NewCache creates a texture cache backed by the given index. A nil logger
// disables logging.
func NewCache(index *Index, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		items:  make(map[string]*image.NRGBA),
		index:  index,
		logger: logger,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		c.logger.Debug("texture not indexed", zap.String("texture", texName))
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := Load(path)
	if err != nil {
		c.logger.Debug("texture load failed", zap.String("path", path), zap.Error(err))
	}

	// Double-check: another goroutine may have stored it meanwhile.
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, exists := c.items[path]; exists {
		return prev
	}
	c.items[path] = img
	return img
}

// Len returns the number of paths that have been loaded or attempted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
