package Veb

import (
	vebmap "github.com/SchrodingerZhu/vebmap"
	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/constraints"
	"math/bits"
	"unsafe"
)

const clusterSeed vebmap.Hasher = 0x9e3779b9

// KeyHasher hashes unsigned keys for the immutable cluster directories. It
// satisfies the Hasher contract of github.com/benbjohnson/immutable.
type KeyHasher[K constraints.Unsigned] struct {
	Seed vebmap.Hasher
}

func (u KeyHasher[K]) Hash(k K) uint32 {
	return uint32(u.Seed.HashUint(uint(k)))
}

func (u KeyHasher[K]) Equal(a, b K) bool {
	return a == b
}

// keyBits is the width of K in bits.
func keyBits[K constraints.Unsigned]() byte {
	return byte(unsafe.Sizeof(K(0)) * 8)
}

// maxLogU is the widest universe exponent a Tree over K supports. It is
// bounded by the width of K and, on top of that, by bits.UintSize-1 so that
// Capacity always fits in a uint.
func maxLogU[K constraints.Unsigned]() byte {
	if b := keyBits[K](); b < bits.UintSize {
		return b
	}
	return bits.UintSize - 1
}

// A node of the recursive tree; nil represents an empty subtree. min is held
// only here, never in a cluster; max is mirrored into cluster[high(max)]
// except when min==max. clusters maps the high half of a key to the child
// holding the low halves; summary is a tree over the non-empty cluster
// indexes. Both stay nil until an element actually descends.
type node[K constraints.Unsigned] struct {
	min, max K
	clusters *immutable.Map[K, *node[K]]
	summary  *node[K]
}

func (n *node[K]) cluster(h K) *node[K] {
	if n.clusters == nil {
		return nil
	}
	c, _ := n.clusters.Get(h)
	return c
}

func (n *node[K]) withCluster(h K, c *node[K]) *immutable.Map[K, *node[K]] {
	m := n.clusters
	if m == nil {
		m = immutable.NewMap[K, *node[K]](KeyHasher[K]{clusterSeed})
	}
	return m.Set(h, c)
}

// Tree is a persistent van Emde Boas tree over keys of type K restricted to
// [0, 2^logU). Receivers never modify the receiver; mutating ones return the
// resulting Tree, which shares all unchanged subtrees with the input. The
// zero value is an empty tree over the single-key universe {0}; use New for
// anything wider.
type Tree[K constraints.Unsigned] struct {
	logU byte
	cnt  uint
	root *node[K]
}

// New returns an empty Tree whose universe is derived from limit according to
// mode (Auto is not meaningful here and is rejected).
func New[K constraints.Unsigned](limit uint, mode Mode) (Tree[K], error) {
	var logU byte
	switch mode {
	case ByLogU:
		if limit > uint(maxLogU[K]()) {
			return Tree[K]{}, &InvalidUniverseError{limit, mode}
		}
		logU = byte(limit)
	case ByU:
		if bits.OnesCount(limit) != 1 {
			return Tree[K]{}, &InvalidUniverseError{limit, mode}
		}
		logU = byte(bits.TrailingZeros(limit))
		if logU > maxLogU[K]() {
			return Tree[K]{}, &InvalidUniverseError{limit, mode}
		}
	case ByMax:
		logU = byte(bits.Len(limit))
		if logU < 1 {
			logU = 1
		}
		if logU > maxLogU[K]() {
			return Tree[K]{}, &InvalidUniverseError{limit, mode}
		}
	default:
		return Tree[K]{}, &InvalidUniverseError{limit, mode}
	}
	return Tree[K]{logU: logU}, nil
}

// FromSlice builds a Tree containing keys by repeated insertion. Duplicates
// are allowed and inserted once. With mode Auto the universe is sized as
// ByMax over the largest key (capacity 2 when keys is empty); with any other
// mode a key outside the universe aborts the build with OutOfRangeError.
func FromSlice[K constraints.Unsigned](keys []K, limit uint, mode Mode) (Tree[K], error) {
	if mode == Auto {
		limit, mode = 0, ByMax
		for _, k := range keys {
			if uint(k) > limit {
				limit = uint(k)
			}
		}
	}
	u, err := New[K](limit, mode)
	if err != nil {
		return u, err
	}
	for _, k := range keys {
		if u, err = u.Insert(k); err != nil {
			return Tree[K]{}, err
		}
	}
	return u, nil
}

// LogU returns the universe exponent.
func (u Tree[K]) LogU() byte {
	return u.logU
}

// Capacity returns the universe size 2^LogU(); all keys must be below it.
func (u Tree[K]) Capacity() uint {
	return uint(1) << u.logU
}

// Len returns the number of keys in the set.
// Time: O(1)
func (u Tree[K]) Len() uint {
	return u.cnt
}

func (u Tree[K]) Empty() bool {
	return u.root == nil
}

// Min [OrderedSet.Min]
// Time: O(1)
func (u Tree[K]) Min() (K, bool) {
	if u.root == nil {
		return 0, false
	}
	return u.root.min, true
}

// Max [OrderedSet.Max]
// Time: O(1)
func (u Tree[K]) Max() (K, bool) {
	if u.root == nil {
		return 0, false
	}
	return u.root.max, true
}

// Has [OrderedSet.Has]
// Time: O(log logU); Space: O(1)
func (u Tree[K]) Has(x K) bool {
	for n, logU := u.root, u.logU; n != nil; {
		if x == n.min || x == n.max {
			return true
		}
		if logU <= 1 {
			return false
		}
		lb := logU >> 1
		n = n.cluster(x >> lb)
		x &= K(1)<<lb - 1
		logU = lb
	}
	return false
}

// Insert returns a Tree that also contains x. Inserting a key already in the
// set returns the input unchanged; a key at or above Capacity returns the
// input and an OutOfRangeError.
// Time: O(log logU)
func (u Tree[K]) Insert(x K) (Tree[K], error) {
	if uint64(x)>>u.logU != 0 {
		return u, &OutOfRangeError{uint(x), u.Capacity()}
	}
	r := insert(u.root, u.logU, x)
	if r == u.root {
		return u, nil
	}
	return Tree[K]{u.logU, u.cnt + 1, r}, nil
}

// Delete returns a Tree without x. Deleting an absent key returns the input
// unchanged; absence is not an error.
// Time: O(log logU)
func (u Tree[K]) Delete(x K) Tree[K] {
	r := remove(u.root, u.logU, x)
	if r == u.root {
		return u
	}
	return Tree[K]{u.logU, u.cnt - 1, r}
}

// Successor [OrderedSet.Successor]
// x need not be in the set nor inside the universe.
// Time: O(log logU)
func (u Tree[K]) Successor(x K) (K, bool) {
	return succ(u.root, u.logU, x)
}

// Predecessor [OrderedSet.Predecessor]
// x need not be in the set nor inside the universe.
// Time: O(log logU)
func (u Tree[K]) Predecessor(x K) (K, bool) {
	return pred(u.root, u.logU, x)
}

// insert x into the subtree n of universe exponent logU, returning the new
// subtree. n is returned unchanged (pointer-equal) iff x was already present;
// otherwise the path from the root to the affected child is copied. The new
// minimum of a previously empty cluster costs O(1), so only one recursive
// call per level does real work.
func insert[K constraints.Unsigned](n *node[K], logU byte, x K) *node[K] {
	if n == nil {
		return &node[K]{min: x, max: x}
	}
	if x == n.min || x == n.max {
		return n
	}
	nn := *n
	if x < nn.min {
		x, nn.min = nn.min, x
	}
	if logU > 1 {
		lb := logU >> 1
		h, l := x>>lb, x&(K(1)<<lb-1)
		c := nn.cluster(h)
		if c == nil {
			nn.summary = insert(nn.summary, logU-lb, h)
		}
		nc := insert(c, lb, l)
		if nc == c {
			return n
		}
		nn.clusters = nn.withCluster(h, nc)
	}
	if x > nn.max {
		nn.max = x
	}
	return &nn
}

// remove x from the subtree n, returning the new subtree; nil means the
// subtree became empty. n is returned unchanged iff x was absent. When the
// top-level minimum is removed, the smallest key of the first non-empty
// cluster is promoted in its place and removed from that cluster instead.
func remove[K constraints.Unsigned](n *node[K], logU byte, x K) *node[K] {
	if n == nil {
		return nil
	}
	if n.min == n.max {
		if x == n.min {
			return nil
		}
		return n
	}
	if logU <= 1 { // exactly {0, 1}
		switch x {
		case 0:
			return &node[K]{min: 1, max: 1}
		case 1:
			return &node[K]{min: 0, max: 0}
		}
		return n
	}
	if x < n.min || x > n.max {
		return n
	}
	lb := logU >> 1
	nn := *n
	if x == nn.min {
		h := nn.summary.min
		nn.min = h<<lb | nn.cluster(h).min
		x = nn.min
	}
	h, l := x>>lb, x&(K(1)<<lb-1)
	c := nn.cluster(h)
	if c == nil {
		return n
	}
	nc := remove(c, lb, l)
	if nc == c {
		return n
	}
	if nc == nil {
		nn.clusters = nn.clusters.Delete(h)
		nn.summary = remove(nn.summary, logU-lb, h)
	} else {
		nn.clusters = nn.withCluster(h, nc)
	}
	if x == n.max {
		if nn.summary == nil {
			nn.max = nn.min
		} else {
			h2 := nn.summary.max
			nn.max = h2<<lb | nn.cluster(h2).max
		}
	}
	return &nn
}

func succ[K constraints.Unsigned](n *node[K], logU byte, x K) (K, bool) {
	if n == nil {
		return 0, false
	}
	if x < n.min {
		return n.min, true
	}
	if logU <= 1 {
		if x < n.max {
			return n.max, true
		}
		return 0, false
	}
	lb := logU >> 1
	h, l := x>>lb, x&(K(1)<<lb-1)
	if c := n.cluster(h); c != nil && l < c.max {
		s, _ := succ(c, lb, l)
		return h<<lb | s, true
	}
	if n.summary != nil {
		if hs, ok := succ(n.summary, logU-lb, h); ok {
			return hs<<lb | n.cluster(hs).min, true
		}
	}
	return 0, false
}

func pred[K constraints.Unsigned](n *node[K], logU byte, x K) (K, bool) {
	if n == nil {
		return 0, false
	}
	if x > n.max {
		return n.max, true
	}
	if logU <= 1 {
		if x > n.min {
			return n.min, true
		}
		return 0, false
	}
	lb := logU >> 1
	h, l := x>>lb, x&(K(1)<<lb-1)
	if c := n.cluster(h); c != nil && l > c.min {
		p, _ := pred(c, lb, l)
		return h<<lb | p, true
	}
	if n.summary != nil {
		if hp, ok := pred(n.summary, logU-lb, h); ok {
			return hp<<lb | n.cluster(hp).max, true
		}
	}
	// the minimum lives only at top level, so the summary search can miss it.
	if x > n.min {
		return n.min, true
	}
	return 0, false
}
