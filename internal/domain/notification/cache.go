// internal/domain/notification/cache.go
package notification

import (
	"container/list"
	"sync"
	"text/template"
)

// templateCache is a size-bounded LRU of compiled message templates,
// keyed by event type and language. It is owned by the dispatcher
// instance; there is no package-level cache state.
type templateCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key  string
	tmpl *template.Template
}

func newTemplateCache(capacity int) *templateCache {
	if capacity <= 0 {
		capacity = 16
	}
	return &templateCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// get returns the compiled template for key, compiling source on a miss.
// The least recently used entry is evicted once capacity is exceeded.
func (c *templateCache) get(key, source string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).tmpl, nil
	}

	tmpl, err := template.New(key).Parse(source)
	if err != nil {
		return nil, err
	}

	el := c.order.PushFront(&cacheEntry{key: key, tmpl: tmpl})
	c.entries[key] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}

	return tmpl, nil
}

// len reports the number of cached templates
func (c *templateCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
