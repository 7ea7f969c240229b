package VebMap

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Pairs returns an iterator yielding entries in ascending key order. Each
// call returns the next key and value, or false once exhausted. The closure
// holds only the VebMap value and the upcoming key, so it can be paused and
// resumed at any point; versions derived from u in the meantime don't affect
// the sequence.
// Time: O(log logU) per call.
func (u VebMap[K, V]) Pairs() func() (K, V, bool) {
	next := u.idx.Ascend()
	return func() (K, V, bool) {
		k, ok := next()
		if !ok {
			var v V
			return 0, v, false
		}
		v, _ := u.kvs.Get(k)
		return k, v, true
	}
}

// Keys returns an iterator over the keys in ascending order.
func (u VebMap[K, V]) Keys() func() (K, bool) {
	return u.idx.Ascend()
}

// Values returns an iterator over the values in ascending key order.
func (u VebMap[K, V]) Values() func() (V, bool) {
	next := u.Pairs()
	return func() (V, bool) {
		_, v, ok := next()
		return v, ok
	}
}

// Range calls f for each entry in ascending key order until f returns false.
func (u VebMap[K, V]) Range(f func(K, V) bool) {
	next := u.Pairs()
	for k, v, ok := next(); ok; k, v, ok = next() {
		if !f(k, v) {
			return
		}
	}
}

// Entries returns all entries in ascending key order.
func (u VebMap[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, u.Len())
	next := u.Pairs()
	for k, v, ok := next(); ok; k, v, ok = next() {
		out = append(out, Entry[K, V]{k, v})
	}
	return out
}

// Reduce folds f over the entries of u in ascending key order.
func Reduce[K constraints.Unsigned, V, A any](u VebMap[K, V], acc A, f func(A, K, V) A) A {
	u.Range(func(k K, v V) bool {
		acc = f(acc, k, v)
		return true
	})
	return acc
}

// Collect drains the pair stream next into u by successive Puts and returns
// the result. The stream's own order is respected: a later duplicate key
// overwrites an earlier one.
func Collect[K constraints.Unsigned, V any](u VebMap[K, V], next func() (K, V, bool)) (VebMap[K, V], error) {
	for k, v, ok := next(); ok; k, v, ok = next() {
		var err error
		if u, err = u.Put(k, v); err != nil {
			return u, err
		}
	}
	return u, nil
}

// String renders the map as Vebmap[capacity=C, elements=[(k, v), ...]] with
// elements in ascending key order.
func (u VebMap[K, V]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vebmap[capacity=%d, elements=[", u.Capacity())
	first := true
	u.Range(func(k K, v V) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "(%v, %v)", k, v)
		return true
	})
	b.WriteString("]]")
	return b.String()
}
