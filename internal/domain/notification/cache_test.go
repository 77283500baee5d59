// internal/domain/notification/cache_test.go
package notification

import "testing"

func TestTemplateCacheCompilesOnce(t *testing.T) {
	c := newTemplateCache(4)

	first, err := c.get("en:test", "Hello {{.Name}}")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	second, err := c.get("en:test", "Hello {{.Name}}")
	if err != nil {
		t.Fatalf("unexpected error on hit: %v", err)
	}
	if first != second {
		t.Error("expected the cached template instance on the second lookup")
	}
	if c.len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", c.len())
	}
}

func TestTemplateCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newTemplateCache(2)

	a, _ := c.get("a", "A")
	c.get("b", "B")
	c.get("a", "A") // refresh a, making b the oldest
	c.get("c", "C") // evicts b

	if c.len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.len())
	}
	if again, _ := c.get("a", "A"); again != a {
		t.Error("expected entry a to survive eviction")
	}

	// b was evicted, so this recompiles and evicts the next oldest
	c.get("b", "B")
	if c.len() != 2 {
		t.Errorf("expected capacity to hold at 2, got %d", c.len())
	}
}

func TestTemplateCacheRejectsBadSource(t *testing.T) {
	c := newTemplateCache(4)

	if _, err := c.get("bad", "{{.Name"); err == nil {
		t.Fatal("expected a compile error")
	}
	if c.len() != 0 {
		t.Errorf("expected failed compiles not to be cached, got %d entries", c.len())
	}
}

func TestTemplateCacheDefaultCapacity(t *testing.T) {
	c := newTemplateCache(0)
	for i := 0; i < 40; i++ {
		c.get(string(rune('a'+i)), "x")
	}
	if c.len() != 16 {
		t.Errorf("expected fallback capacity 16, got %d", c.len())
	}
}
