package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/hoard/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const dbFileName = "hoard.db"

// DataStore implements domain.Store using BoltDB.
// Each category is a bucket, values are JSON.
type DataStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access).
	// In memory-only mode this is the whole store.
	cache map[string][]byte
}

// NewDataStore opens (or creates) the store under dir.
// An empty dir gives a memory-only store.
func NewDataStore(dir string) (*DataStore, error) {
	if dir == "" {
		return &DataStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, category := range domain.Categories {
			if _, err := tx.CreateBucketIfNotExists([]byte(category)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DataStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *DataStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func cacheKey(category, key string) string {
	return category + ":" + key
}

func (s *DataStore) Get(category, key string, dest any) bool {
	ck := cacheKey(category, key)

	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(category))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *DataStore) Keys(category string) []string {
	if s.db == nil {
		prefix := category + ":"
		s.mu.RLock()
		var keys []string
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, strings.TrimPrefix(k, prefix))
			}
		}
		s.mu.RUnlock()
		sort.Strings(keys)
		return keys
	}

	var keys []string
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(category))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys
}

func (s *DataStore) Put(category, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[cacheKey(category, key)] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(category))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *DataStore) Delete(category, key string) error {
	s.mu.Lock()
	delete(s.cache, cacheKey(category, key))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(category))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (s *DataStore) DeletePrefix(category, prefix string) error {
	s.mu.Lock()
	cachePrefix := cacheKey(category, prefix)
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Collect first; deleting while iterating a cursor skips keys
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(category))
		if b == nil {
			return nil
		}
		var doomed [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			doomed = append(doomed, append([]byte(nil), k...))
		}
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
