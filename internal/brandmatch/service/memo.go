package service

import "sync"

// memo: ограниченный кэш нормализации. При заполнении выбрасывается
// старшая половина записей (FIFO). Смена поколения (версии ключевых слов)
// очищает кэш целиком.
type memo struct {
	mu    sync.Mutex
	max   int
	gen   uint64
	m     map[string]string
	order []string
}

func newMemo(max int) *memo {
	if max <= 0 {
		max = 1000
	}
	return &memo{max: max, m: make(map[string]string, max)}
}

func (c *memo) get(gen uint64, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(gen)
	v, ok := c.m[key]
	return v, ok
}

func (c *memo) put(gen uint64, key, val string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(gen)
	if _, ok := c.m[key]; ok {
		c.m[key] = val
		return
	}
	if len(c.m) >= c.max {
		c.evictOldest()
	}
	c.m[key] = val
	c.order = append(c.order, key)
}

func (c *memo) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// под мьютексом
func (c *memo) sync(gen uint64) {
	if gen == c.gen {
		return
	}
	c.gen = gen
	c.m = make(map[string]string, c.max)
	c.order = nil
}

// под мьютексом
func (c *memo) evictOldest() {
	n := len(c.order) / 2
	if n == 0 {
		n = 1
	}
	for _, k := range c.order[:n] {
		delete(c.m, k)
	}
	c.order = append([]string(nil), c.order[n:]...)
}
