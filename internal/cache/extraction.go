package cache

import (
	"encoding/json"

	"github.com/panbanda/tangle/pkg/extract"
)

// Lookup returns the cached extraction for key if it was computed from the
// same content.
func (c *Cache) Lookup(key string, content []byte) (*extract.Extraction, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, ok := c.GetWithHash(key, HashBytes(content))
	if !ok {
		return nil, false
	}
	var ex extract.Extraction
	if err := json.Unmarshal(data, &ex); err != nil {
		return nil, false
	}
	if ex.Imports == nil {
		ex.Imports = []extract.RawImport{}
	}
	if ex.Functions == nil {
		ex.Functions = []extract.RawFunction{}
	}
	return &ex, true
}

// Store records an extraction computed from content. Failures are ignored;
// a missing entry only costs a re-parse.
func (c *Cache) Store(key string, content []byte, ex *extract.Extraction) {
	if !c.Enabled() || ex == nil {
		return
	}
	data, err := json.Marshal(ex)
	if err != nil {
		return
	}
	_ = c.SetWithHash(key, HashBytes(content), data)
}
