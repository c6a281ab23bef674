// Package cache stores computed struct layouts on disk, keyed by the
// content of the block file they came from.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"glsllayout/glsl"
)

// schemaVersion changes whenever Payload or the layout rules change.
const schemaVersion uint16 = 1

const subdir = "layouts"

// Key identifies one evaluation of one file.
type Key [sha256.Size]byte

// String returns the hex form used as the file name.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// KeyFor derives the cache key for a file's bytes evaluated with rule as
// the default. forced marks a rule that overrides the file's own.
func KeyFor(data []byte, rule glsl.Rule, forced bool) Key {
	h := sha256.New()
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], schemaVersion)
	hdr[2] = byte(rule)
	if forced {
		hdr[3] = 1
	}
	h.Write(hdr[:])
	h.Write(data)
	var k Key
	h.Sum(k[:0])
	return k
}

// Payload is what one cache entry holds.
type Payload struct {
	Schema  uint16
	Path    string
	Rule    glsl.Rule
	Layouts []*glsl.StructLayout
}

// Cache is a directory of msgpack-encoded payloads. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir, creating it if needed.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, subdir, key.String()+".mp")
}

// Put writes payload under key, replacing any previous entry atomically.
func (c *Cache) Put(key Key, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *payload
	stored.Schema = schemaVersion
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. A missing entry or one written by another
// schema version is a miss, not an error.
func (c *Cache) Get(key Key) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	if out.Schema != schemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	live := filepath.Join(c.dir, subdir)
	old := live + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(live, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
