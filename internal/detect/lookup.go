package detect

import (
	"iter"
	"maps"
)

// Lookup is an owned keyed-to-list index. Take removes a bucket as it hands
// it out, so every bucket is consumed at most once.
type Lookup[K comparable, V any] struct {
	buckets map[K][]V
}

// GroupBy places every item into the bucket named by key, preserving the
// input order within each bucket.
func GroupBy[K comparable, V any](items []V, key func(V) K) *Lookup[K, V] {
	l := &Lookup[K, V]{buckets: make(map[K][]V)}
	for _, item := range items {
		k := key(item)
		l.buckets[k] = append(l.buckets[k], item)
	}
	return l
}

// Take fetches and removes the bucket at k.
func (l *Lookup[K, V]) Take(k K) ([]V, bool) {
	bucket, ok := l.buckets[k]
	if ok {
		delete(l.buckets, k)
	}
	return bucket, ok
}

// Len returns the number of buckets not yet taken.
func (l *Lookup[K, V]) Len() int {
	return len(l.buckets)
}

// All iterates the remaining buckets in unspecified order.
func (l *Lookup[K, V]) All() iter.Seq2[K, []V] {
	return maps.All(l.buckets)
}
