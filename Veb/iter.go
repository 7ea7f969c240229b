package Veb

// Ascend returns an iterator over the keys in ascending order. Each call
// yields the next key, or false once the set is exhausted. The closure's only
// state is the Tree value and the upcoming key, so it can be paused
// indefinitely and resumed, and it keeps yielding the same sequence no matter
// what derived versions of the tree are created in the meantime.
// Time: O(log logU) per call.
func (u Tree[K]) Ascend() func() (K, bool) {
	k, ok := u.Min()
	return func() (K, bool) {
		if !ok {
			return 0, false
		}
		r := k
		k, ok = u.Successor(r)
		return r, true
	}
}

// AscendFrom behaves like Ascend starting at the smallest key >= x.
func (u Tree[K]) AscendFrom(x K) func() (K, bool) {
	k, ok := x, u.Has(x)
	if !ok {
		k, ok = u.Successor(x)
	}
	return func() (K, bool) {
		if !ok {
			return 0, false
		}
		r := k
		k, ok = u.Successor(r)
		return r, true
	}
}

// ToSlice returns all keys in ascending order.
// Time: O(n log logU)
func (u Tree[K]) ToSlice() []K {
	out := make([]K, 0, u.cnt)
	next := u.Ascend()
	for k, ok := next(); ok; k, ok = next() {
		out = append(out, k)
	}
	return out
}

// Slice skips the first start keys in ascending order and returns up to count
// of the following ones.
func (u Tree[K]) Slice(start, count uint) []K {
	next := u.Ascend()
	for ; start > 0; start-- {
		if _, ok := next(); !ok {
			return nil
		}
	}
	out := make([]K, 0, count)
	for ; count > 0; count-- {
		k, ok := next()
		if !ok {
			break
		}
		out = append(out, k)
	}
	return out
}
