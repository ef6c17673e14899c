package widget

// Entry pairs a rendered widget body with the fingerprint it was derived
// from. The two are always written together so displayed content can
// never drift from its fingerprint.
type Entry struct {
	Fingerprint string
	Content     string
}

// Cache stores one Entry per widget key. Top-tracks panels use one key
// per time-range bucket; the other widgets use a single key.
//
// Entries live for the client session and are only ever overwritten,
// never individually evicted. The cache is touched exclusively from the
// TUI update loop, so it carries no lock.
type Cache struct {
	entries map[string]Entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key, if any.
func (c *Cache) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Put stores fingerprint and content atomically under key.
func (c *Cache) Put(key, fingerprint, content string) {
	c.entries[key] = Entry{Fingerprint: fingerprint, Content: content}
}

// Has reports whether key holds an entry.
func (c *Cache) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}
