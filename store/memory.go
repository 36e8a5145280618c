package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory. It backs tests and local
// development without a database file.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) GetOne(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) GetMany(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, q.Filters) {
			out = append(out, cloneDocument(doc))
		}
	}

	if q.Sort != "" {
		field, desc := strings.TrimPrefix(q.Sort, "-"), strings.HasPrefix(q.Sort, "-")
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return less(out[j][field], out[i][field])
			}
			return less(out[i][field], out[j][field])
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data Document, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	if id == "" {
		id = pseudoRecordID()
	} else if _, taken := s.collections[collection][id]; taken {
		return "", ErrExists
	}

	now := time.Now().UTC()
	doc := cloneDocument(data)
	doc["id"] = id
	doc["createdAt"] = now
	doc["updatedAt"] = now

	s.collections[collection][id] = doc
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, partial Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(collection, id, partial)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// Mutate holds the store lock across the read-modify-write so concurrent
// mutations of the same document serialize.
func (s *MemoryStore) Mutate(ctx context.Context, collection, id string, fn func(Document) (Document, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	partial, err := fn(cloneDocument(doc))
	if err != nil {
		return err
	}
	if partial == nil {
		return nil
	}
	return s.applyLocked(collection, id, partial)
}

func (s *MemoryStore) applyLocked(collection, id string, partial Document) error {
	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range partial {
		if k == "id" || k == "createdAt" {
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = time.Now().UTC()
	return nil
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		have := doc[f.Field]
		switch f.Op {
		case OpEqual:
			if fmt.Sprint(have) != fmt.Sprint(f.Value) {
				return false
			}
		case OpGTE:
			if less(have, f.Value) {
				return false
			}
		case OpLTE:
			if less(f.Value, have) {
				return false
			}
		case OpContains:
			if !strings.Contains(strings.ToLower(fmt.Sprint(have)), strings.ToLower(fmt.Sprint(f.Value))) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func less(a, b any) bool {
	if at, ok := asTime(a); ok {
		if bt, ok := asTime(b); ok {
			return at.Before(bt)
		}
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af < bf
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

const recordIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func pseudoRecordID() string {
	b := make([]byte, 15)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = recordIDAlphabet[int(b[i])%len(recordIDAlphabet)]
	}
	return string(b)
}
