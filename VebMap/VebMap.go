// Package VebMap pairs a persistent van Emde Boas index (Veb.Tree) with a
// persistent hash map, giving an integer-keyed map with expected O(1) lookup
// and O(log logU) MinKey/MaxKey/PredKey/SuccKey and ordered iteration. The
// two halves are kept in lockstep: the index's key set always equals the
// map's key set. Like both halves, a VebMap is a value; every mutating
// receiver returns a new VebMap sharing unchanged substructure with the
// input, so any version can be read concurrently without synchronization.
package VebMap

import (
	"fmt"
	"math/bits"

	"github.com/SchrodingerZhu/vebmap/Veb"
	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/constraints"
)

// MissingKeyError reports that a strict operation required an absent key.
type MissingKeyError struct {
	Key uint
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("key %d not present", e.Key)
}

// ShrinkError reports an UpgradeCapacity call that would shrink the universe.
type ShrinkError struct {
	Capacity, NewLimit uint
}

func (e *ShrinkError) Error() string {
	return fmt.Sprintf("cannot shrink capacity %d to hold at most %d", e.Capacity, e.NewLimit)
}

// Entry is a key-value pair of a VebMap.
type Entry[K constraints.Unsigned, V any] struct {
	Key K
	Val V
}

// VebMap is the combined structure. It shouldn't be created directly using a
// struct literal; use New, From, or Collect.
type VebMap[K constraints.Unsigned, V any] struct {
	idx Veb.Tree[K]
	kvs *immutable.Map[K, V]
}

// New returns an empty VebMap whose capacity is derived from limit according
// to mode, as in Veb.New.
func New[K constraints.Unsigned, V any](limit uint, mode Veb.Mode) (VebMap[K, V], error) {
	idx, err := Veb.New[K](limit, mode)
	if err != nil {
		return VebMap[K, V]{}, err
	}
	return VebMap[K, V]{idx, immutable.NewMap[K, V](Veb.KeyHasher[K]{})}, nil
}

// From builds a VebMap from entries by successive Puts; a later duplicate key
// overwrites an earlier one. With mode Auto the capacity is sized as ByMax
// over the largest key (capacity 2 when entries is empty).
func From[K constraints.Unsigned, V any](entries []Entry[K, V], limit uint, mode Veb.Mode) (VebMap[K, V], error) {
	if mode == Veb.Auto {
		limit, mode = 0, Veb.ByMax
		for _, e := range entries {
			if uint(e.Key) > limit {
				limit = uint(e.Key)
			}
		}
	}
	u, err := New[K, V](limit, mode)
	if err != nil {
		return u, err
	}
	for _, e := range entries {
		if u, err = u.Put(e.Key, e.Val); err != nil {
			return VebMap[K, V]{}, err
		}
	}
	return u, nil
}

// Len returns the number of entries.
// Time: O(1)
func (u VebMap[K, V]) Len() uint {
	if u.kvs == nil {
		return 0
	}
	return uint(u.kvs.Len())
}

// Capacity returns the universe size; all keys must be below it.
func (u VebMap[K, V]) Capacity() uint {
	return u.idx.Capacity()
}

// LogU returns the universe exponent.
func (u VebMap[K, V]) LogU() byte {
	return u.idx.LogU()
}

// Index returns the underlying van Emde Boas index. Read-only access; the
// index of a given VebMap version never changes.
func (u VebMap[K, V]) Index() Veb.Tree[K] {
	return u.idx
}

// HasKey reports membership.
// Time: expected O(1)
func (u VebMap[K, V]) HasKey(k K) bool {
	_, ok := u.kvs.Get(k)
	return ok
}

// Get returns the value for k, or d if k is absent. The index is never
// consulted.
// Time: expected O(1)
func (u VebMap[K, V]) Get(k K, d V) V {
	if v, ok := u.kvs.Get(k); ok {
		return v
	}
	return d
}

// Fetch returns the value for k and whether it was present.
// Time: expected O(1)
func (u VebMap[K, V]) Fetch(k K) (V, bool) {
	return u.kvs.Get(k)
}

// FetchStrict is Fetch for keys that must be present; absence is reported as
// a MissingKeyError.
func (u VebMap[K, V]) FetchStrict(k K) (V, error) {
	v, ok := u.kvs.Get(k)
	if !ok {
		return v, &MissingKeyError{uint(k)}
	}
	return v, nil
}

// Put returns a VebMap with k bound to v, overwriting any previous binding.
// A key at or above Capacity leaves the input untouched and reports an
// OutOfRangeError; the universe never grows implicitly (see
// UpgradeCapacity).
// Time: O(log logU)
func (u VebMap[K, V]) Put(k K, v V) (VebMap[K, V], error) {
	idx, err := u.idx.Insert(k)
	if err != nil {
		return u, err
	}
	return VebMap[K, V]{idx, u.kvs.Set(k, v)}, nil
}

// Delete returns a VebMap without k. Absence is not an error.
// Time: O(log logU)
func (u VebMap[K, V]) Delete(k K) VebMap[K, V] {
	if _, ok := u.kvs.Get(k); !ok {
		return u
	}
	return VebMap[K, V]{u.idx.Delete(k), u.kvs.Delete(k)}
}

// MinKey returns the smallest key.
// Time: O(1)
func (u VebMap[K, V]) MinKey() (K, bool) {
	return u.idx.Min()
}

// MaxKey returns the largest key.
// Time: O(1)
func (u VebMap[K, V]) MaxKey() (K, bool) {
	return u.idx.Max()
}

// PredKey returns the largest key strictly less than k; k itself need not be
// present.
// Time: O(log logU)
func (u VebMap[K, V]) PredKey(k K) (K, bool) {
	return u.idx.Predecessor(k)
}

// SuccKey returns the smallest key strictly greater than k; k itself need
// not be present.
// Time: O(log logU)
func (u VebMap[K, V]) SuccKey(k K) (K, bool) {
	return u.idx.Successor(k)
}

// UpgradeCapacity returns a VebMap whose capacity is the smallest power of
// two greater than newLimit, holding the same entries. The index is rebuilt;
// the map half is shared as-is. A newLimit whose universe would be smaller
// than the current one is refused with a ShrinkError.
func (u VebMap[K, V]) UpgradeCapacity(newLimit uint) (VebMap[K, V], error) {
	logU := bits.Len(newLimit)
	if logU < 1 {
		logU = 1
	}
	if byte(logU) < u.idx.LogU() {
		return u, &ShrinkError{u.Capacity(), newLimit}
	}
	idx, err := Veb.FromSlice(u.idx.ToSlice(), uint(logU), Veb.ByLogU)
	if err != nil {
		return u, err
	}
	return VebMap[K, V]{idx, u.kvs}, nil
}
