package VebMap

import (
	"github.com/SchrodingerZhu/vebmap/Veb"
	"golang.org/x/exp/constraints"
)

// Drop returns a VebMap without any of ks. Equivalent to folding Delete.
func (u VebMap[K, V]) Drop(ks []K) VebMap[K, V] {
	for _, k := range ks {
		u = u.Delete(k)
	}
	return u
}

// Pop returns the value bound to k (or d if absent) together with a VebMap
// without k.
func (u VebMap[K, V]) Pop(k K, d V) (V, VebMap[K, V]) {
	v, ok := u.kvs.Get(k)
	if !ok {
		return d, u
	}
	return v, u.Delete(k)
}

// PopLazy is Pop with the default computed only when k is absent.
func (u VebMap[K, V]) PopLazy(k K, f func() V) (V, VebMap[K, V]) {
	v, ok := u.kvs.Get(k)
	if !ok {
		return f(), u
	}
	return v, u.Delete(k)
}

// Replace returns a VebMap with k rebound to v if k is present; otherwise
// the input unchanged.
func (u VebMap[K, V]) Replace(k K, v V) VebMap[K, V] {
	if _, ok := u.kvs.Get(k); !ok {
		return u
	}
	return VebMap[K, V]{u.idx, u.kvs.Set(k, v)}
}

// ReplaceStrict is Replace for keys that must be present.
func (u VebMap[K, V]) ReplaceStrict(k K, v V) (VebMap[K, V], error) {
	if _, ok := u.kvs.Get(k); !ok {
		return u, &MissingKeyError{uint(k)}
	}
	return VebMap[K, V]{u.idx, u.kvs.Set(k, v)}, nil
}

// Update rebinds k to f(current) if present, and to d otherwise. Binding a
// new key is subject to the same capacity validation as Put.
func (u VebMap[K, V]) Update(k K, d V, f func(V) V) (VebMap[K, V], error) {
	if v, ok := u.kvs.Get(k); ok {
		return VebMap[K, V]{u.idx, u.kvs.Set(k, f(v))}, nil
	}
	return u.Put(k, d)
}

// UpdateStrict rebinds k to f(current) for keys that must be present.
func (u VebMap[K, V]) UpdateStrict(k K, f func(V) V) (VebMap[K, V], error) {
	v, ok := u.kvs.Get(k)
	if !ok {
		return u, &MissingKeyError{uint(k)}
	}
	return VebMap[K, V]{u.idx, u.kvs.Set(k, f(v))}, nil
}

// GetAndUpdate passes the current binding of k (and whether it exists) to f
// and applies f's decision: (v, true) binds k to v, (_, false) removes k.
// The previous value is returned alongside the resulting VebMap.
func (u VebMap[K, V]) GetAndUpdate(k K, f func(V, bool) (V, bool)) (V, VebMap[K, V], error) {
	cur, ok := u.kvs.Get(k)
	nv, keep := f(cur, ok)
	if !keep {
		return cur, u.Delete(k), nil
	}
	nu, err := u.Put(k, nv)
	return cur, nu, err
}

// Merge returns the union of u and o, with o's value winning when a key is
// bound in both. The result's index is derived from whichever input has the
// wider universe, with the other side's keys inserted into it, so the
// result's capacity is the larger of the two.
func (u VebMap[K, V]) Merge(o VebMap[K, V]) VebMap[K, V] {
	return u.MergeFunc(o, func(_ K, _, b V) V { return b })
}

// MergeFunc is Merge with conflicts delegated to f(key, u's value, o's
// value).
func (u VebMap[K, V]) MergeFunc(o VebMap[K, V], f func(K, V, V) V) VebMap[K, V] {
	idx, rest := u.idx, o.idx
	if rest.LogU() > idx.LogU() {
		idx, rest = rest, idx
	}
	next := rest.Ascend()
	for k, ok := next(); ok; k, ok = next() {
		idx, _ = idx.Insert(k) // rest's universe fits inside idx's
	}
	kvs := u.kvs
	for it := o.kvs.Iterator(); !it.Done(); {
		k, vb, _ := it.Next()
		if va, ok := kvs.Get(k); ok {
			kvs = kvs.Set(k, f(k, va, vb))
		} else {
			kvs = kvs.Set(k, vb)
		}
	}
	return VebMap[K, V]{idx, kvs}
}

// Split partitions u by ks: the first result holds u's entries whose keys
// are in ks, the second the remaining ones. Both inherit u's capacity.
func (u VebMap[K, V]) Split(ks []K) (VebMap[K, V], VebMap[K, V]) {
	with, _ := New[K, V](uint(u.idx.LogU()), Veb.ByLogU)
	rest := u
	for _, k := range ks {
		if v, ok := rest.kvs.Get(k); ok {
			with, _ = with.Put(k, v)
			rest = rest.Delete(k)
		}
	}
	return with, rest
}

// Take returns a VebMap holding only u's entries whose keys are in ks, with
// u's capacity.
func (u VebMap[K, V]) Take(ks []K) VebMap[K, V] {
	out, _ := New[K, V](uint(u.idx.LogU()), Veb.ByLogU)
	for _, k := range ks {
		if v, ok := u.kvs.Get(k); ok {
			out, _ = out.Put(k, v)
		}
	}
	return out
}

// Slice skips the first start entries in key order and returns a VebMap of
// up to count following ones, with u's capacity.
func (u VebMap[K, V]) Slice(start, count uint) VebMap[K, V] {
	out, _ := New[K, V](uint(u.idx.LogU()), Veb.ByLogU)
	next := u.idx.Ascend()
	for ; start > 0; start-- {
		if _, ok := next(); !ok {
			return out
		}
	}
	for ; count > 0; count-- {
		k, ok := next()
		if !ok {
			break
		}
		v, _ := u.kvs.Get(k)
		out, _ = out.Put(k, v)
	}
	return out
}

// Equal reports whether a and b hold the same entries. Capacities may
// differ; only contents are compared.
func Equal[K constraints.Unsigned, V comparable](a, b VebMap[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualFunc is Equal with values compared by eq.
func EqualFunc[K constraints.Unsigned, V any](a, b VebMap[K, V], eq func(V, V) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for it := a.kvs.Iterator(); !it.Done(); {
		k, va, _ := it.Next()
		vb, ok := b.kvs.Get(k)
		if !ok || !eq(va, vb) {
			return false
		}
	}
	return true
}
