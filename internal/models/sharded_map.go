package models

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const shardCount = 32

// ShardedMap is a lock-striped map keyed by user id. Values are stored by
// value, so Snapshot and Range hand out copies that are safe to use off the
// tick goroutine.
type ShardedMap[V any] struct {
	shards [shardCount]mapShard[V]
}

type mapShard[V any] struct {
	mu sync.RWMutex
	m  map[uuid.UUID]V
}

func NewShardedMap[V any]() *ShardedMap[V] {
	s := &ShardedMap[V]{}
	for i := range s.shards {
		s.shards[i].m = make(map[uuid.UUID]V)
	}
	return s
}

func (s *ShardedMap[V]) shard(id uuid.UUID) *mapShard[V] {
	return &s.shards[xxhash.Sum64(id[:])%shardCount]
}

func (s *ShardedMap[V]) Get(id uuid.UUID) (V, bool) {
	sh := s.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.m[id]
	return v, ok
}

func (s *ShardedMap[V]) Set(id uuid.UUID, v V) {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.m[id] = v
}

// Delete removes id and reports whether it was present.
func (s *ShardedMap[V]) Delete(id uuid.UUID) bool {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.m[id]
	delete(sh.m, id)
	return ok
}

// Compute replaces the value for id with the result of fn under the shard
// lock. Returning keep=false removes the entry.
func (s *ShardedMap[V]) Compute(id uuid.UUID, fn func(v V, ok bool) (V, bool)) V {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	old, ok := sh.m[id]
	v, keep := fn(old, ok)
	if keep {
		sh.m[id] = v
	} else {
		delete(sh.m, id)
	}
	return v
}

func (s *ShardedMap[V]) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// Range calls fn for every entry of a per-shard snapshot until fn returns false.
func (s *ShardedMap[V]) Range(fn func(id uuid.UUID, v V) bool) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		ids := make([]uuid.UUID, 0, len(sh.m))
		vals := make([]V, 0, len(sh.m))
		for id, v := range sh.m {
			ids = append(ids, id)
			vals = append(vals, v)
		}
		sh.mu.RUnlock()

		for j := range ids {
			if !fn(ids[j], vals[j]) {
				return
			}
		}
	}
}

func (s *ShardedMap[V]) Snapshot() map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, s.Len())
	s.Range(func(id uuid.UUID, v V) bool {
		out[id] = v
		return true
	})
	return out
}

// DeleteIf removes every entry for which pred returns true and returns the count.
func (s *ShardedMap[V]) DeleteIf(pred func(id uuid.UUID, v V) bool) int {
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for id, v := range sh.m {
			if pred(id, v) {
				delete(sh.m, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

func (s *ShardedMap[V]) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.m = make(map[uuid.UUID]V)
		sh.mu.Unlock()
	}
}
