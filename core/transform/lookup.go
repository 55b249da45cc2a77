package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LookupTable is the static code-to-name table consulted by CODE_LOOKUP_ALL.
// It is built once at process start and read-only afterwards; concurrent
// reads need no locking. Keys are canonical strings: a numeric-looking code
// in the asset is not silently coerced, the file must carry string keys.
type LookupTable struct {
	entries map[string]string
}

// NewLookupTable builds a table from an in-memory map. The map is copied, so
// later mutation of the argument cannot leak into the table.
func NewLookupTable(entries map[string]string) *LookupTable {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &LookupTable{entries: copied}
}

// LoadLookupTable reads a flat string-to-string table from a JSON or YAML
// file, chosen by extension. A missing or malformed asset is an error the
// caller must treat as fatal at startup; the table is never loaded lazily
// per document.
func LoadLookupTable(path string) (*LookupTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup table asset %s: %w", path, err)
	}

	entries := make(map[string]string)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("malformed YAML lookup table %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("malformed JSON lookup table %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported lookup table format %q for %s", ext, path)
	}

	return NewLookupTable(entries), nil
}

// Name returns the name registered for a code, or "" when the code is
// unknown. Unknown codes are not errors.
func (t *LookupTable) Name(code string) string {
	return t.entries[code]
}

// Len reports the number of entries in the table.
func (t *LookupTable) Len() int {
	return len(t.entries)
}
