package config

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"sync"
)

// DefaultPath is the persisted config store's location (§6 "Persisted
// state layout": "a binary key/value file under /data/config").
const DefaultPath = "/data/config"

// FileStore is a Store persisted as a flat binary key/value file: each
// record is a big-endian uint16 key length, the key bytes, a big-endian
// uint32 value length, and the value bytes, repeated to EOF. There's no
// natural third-party serialization library for a format this small and
// project-specific (see DESIGN.md); it mirrors the original firmware's
// own hand-rolled persisted format rather than adopting something like
// JSON/gob that the original doesn't use.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string][]byte
}

// OpenFileStore loads path if it exists, or starts empty if it doesn't.
func OpenFileStore(path string) (*FileStore, error) {
	f := &FileStore{path: path, data: make(map[string][]byte)}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	if err := f.decode(b); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileStore) decode(b []byte) error {
	r := bytes.NewReader(b)
	for r.Len() > 0 {
		var klen uint16
		if err := binary.Read(r, binary.BigEndian, &klen); err != nil {
			return err
		}
		key := make([]byte, klen)
		if _, err := io.ReadFull(r, key); err != nil {
			return err
		}
		var vlen uint32
		if err := binary.Read(r, binary.BigEndian, &vlen); err != nil {
			return err
		}
		val := make([]byte, vlen)
		if _, err := io.ReadFull(r, val); err != nil {
			return err
		}
		f.data[string(key)] = val
	}
	return nil
}

// Get implements Store.
func (f *FileStore) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set implements Store. The change is held in memory until Flush.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	f.data[key] = v
	return nil
}

// Flush implements Store, writing the current key/value set to path.
func (f *FileStore) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var buf bytes.Buffer
	for k, v := range f.data {
		binary.Write(&buf, binary.BigEndian, uint16(len(k)))
		buf.WriteString(k)
		binary.Write(&buf, binary.BigEndian, uint32(len(v)))
		buf.Write(v)
	}
	return os.WriteFile(f.path, buf.Bytes(), 0o600)
}

var _ Store = (*FileStore)(nil)
