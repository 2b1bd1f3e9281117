package inference

// cacheKey identifies one extraction request
type cacheKey struct {
	model  string
	prompt string
}

// Cache remembers extraction results for the lifetime of one process, so an
// identical dictation does not trigger a second backend call. Constructed in
// the command layer and injected into the client. The session runs on a
// single goroutine, so a plain map needs no locking.
type Cache struct {
	entries map[cacheKey]BacklogEntry
}

func NewCache() *Cache {
	return &Cache{
		entries: map[cacheKey]BacklogEntry{},
	}
}

func (cache *Cache) Get(model, prompt string) (BacklogEntry, bool) {
	entry, ok := cache.entries[cacheKey{model: model, prompt: prompt}]
	return entry, ok
}

func (cache *Cache) Put(model, prompt string, entry BacklogEntry) {
	cache.entries[cacheKey{model: model, prompt: prompt}] = entry
}

// Len reports the number of cached extractions
func (cache *Cache) Len() int {
	return len(cache.entries)
}
