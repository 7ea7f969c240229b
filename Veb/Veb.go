// Package Veb implements a persistent van Emde Boas tree: an ordered set of
// unsigned integer keys drawn from a fixed universe [0, 2^logU) that answers
// Min, Max, Predecessor, and Successor in O(log logU) time. Every mutating
// receiver returns a new Tree value; unchanged subtrees are shared between
// versions, so old versions stay valid and any version can be read from many
// goroutines without synchronization.
package Veb

import (
	"fmt"
	"golang.org/x/exp/constraints"
)

// Mode selects how a capacity limit passed to New and FromSlice is
// interpreted.
type Mode byte

const (
	// ByLogU treats the limit as the universe exponent itself.
	ByLogU Mode = iota
	// ByU treats the limit as the universe size, which must be a power of two.
	ByU
	// ByMax treats the limit as the largest key that must fit; the universe
	// becomes the smallest power of two strictly greater than it, and at
	// least 2.
	ByMax
	// Auto is accepted only by FromSlice; it behaves as ByMax with the limit
	// taken from the largest key of the input.
	Auto
)

// OrderedSet is the query surface shared by ordered integer sets.
// Receivers that have a bool as a second return value indicate whether the
// first return value is defined; calling Min on an empty set returns
// (x K, false) with x undefined.
type OrderedSet[K constraints.Unsigned] interface {
	//Has reports whether x is in the set.
	Has(x K) bool
	//Min is the smallest element of the set.
	Min() (K, bool)
	//Max is the largest element of the set.
	Max() (K, bool)
	//Predecessor returns the greatest element less than x.
	Predecessor(x K) (K, bool)
	//Successor returns the smallest element greater than x.
	Successor(x K) (K, bool)
	//Len is the number of elements in the set.
	Len() uint
}

// InvalidUniverseError reports a constructor argument that doesn't describe a
// representable universe: a ByU limit that isn't a power of two, an exponent
// wider than the key type, or a Mode the constructor doesn't accept.
type InvalidUniverseError struct {
	Limit uint
	Mode  Mode
}

func (e *InvalidUniverseError) Error() string {
	return fmt.Sprintf("invalid universe: limit %d with mode %d", e.Limit, e.Mode)
}

// OutOfRangeError reports a key outside the universe [0, Capacity).
type OutOfRangeError struct {
	Key, Capacity uint
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("key %d out of range: capacity is %d", e.Key, e.Capacity)
}
