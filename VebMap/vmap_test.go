package VebMap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/SchrodingerZhu/vebmap/Veb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rg = *rand.New(rand.NewSource(0))

func dense(t *testing.T, n uint) VebMap[uint, uint] {
	t.Helper()
	m, err := New[uint, uint](n, Veb.ByMax)
	require.NoError(t, err)
	for i := uint(0); i <= n; i++ {
		m, err = m.Put(i, i)
		require.NoError(t, err)
	}
	return m
}

func TestDenseBuild(t *testing.T) {
	m := dense(t, 10000)
	require.EqualValues(t, 10001, m.Len())
	require.EqualValues(t, 16384, m.Capacity())
	mi, ok := m.MinKey()
	require.True(t, ok)
	require.EqualValues(t, 0, mi)
	ma, ok := m.MaxKey()
	require.True(t, ok)
	require.EqualValues(t, 10000, ma)
	want := uint(0)
	next := m.Pairs()
	for k, v, ok := next(); ok; k, v, ok = next() {
		require.Equal(t, want, k)
		require.Equal(t, want, v)
		want++
	}
	require.EqualValues(t, 10001, want)
}

func TestRandomDelete(t *testing.T) {
	const n = 10000
	m := dense(t, n)
	alive := make(map[uint]bool, n+1)
	for i := uint(0); i <= n; i++ {
		alive[i] = true
	}
	for i := 0; i < 100; i++ {
		k := uint(rg.Intn(n + 1))
		m = m.Delete(k)
		delete(alive, k)
	}
	keys := make([]uint, 0, len(alive))
	for k := range alive {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	require.EqualValues(t, len(keys), m.Len())
	j := 0
	for i := uint(0); i <= n; i++ {
		assert.Equal(t, alive[i], m.HasKey(i), "membership of %d", i)
		for j < len(keys) && keys[j] < i {
			j++
		}
		// predecessor: largest alive key < i
		p, ok := m.PredKey(i)
		if j == 0 {
			assert.False(t, ok, "pred_key(%d)", i)
		} else if assert.True(t, ok, "pred_key(%d)", i) {
			assert.Equal(t, keys[j-1], p, "pred_key(%d)", i)
		}
		// successor: smallest alive key > i
		var ws uint
		wok := false
		if j < len(keys) && keys[j] == i {
			if j+1 < len(keys) {
				ws, wok = keys[j+1], true
			}
		} else if j < len(keys) {
			ws, wok = keys[j], true
		}
		s, ok := m.SuccKey(i)
		assert.Equal(t, wok, ok, "succ_key(%d)", i)
		if ok && wok {
			assert.Equal(t, ws, s, "succ_key(%d)", i)
		}
	}
}

func TestPutOutOfRange(t *testing.T) {
	m := dense(t, 10000)
	require.EqualValues(t, 16384, m.Capacity())
	m2, err := m.Put(16384, 1)
	var oe *Veb.OutOfRangeError
	require.ErrorAs(t, err, &oe)
	assert.EqualValues(t, 16384, oe.Key)
	assert.EqualValues(t, 16384, oe.Capacity)
	assert.EqualValues(t, m.Len(), m2.Len())
	assert.False(t, m2.HasKey(16384))
}

func TestBoundaryQueries(t *testing.T) {
	m, err := From([]Entry[uint, string]{{5, "a"}, {1, "b"}, {9, "c"}}, 0, Veb.Auto)
	require.NoError(t, err)
	_, ok := m.SuccKey(9)
	assert.False(t, ok, "succ of the maximum")
	_, ok = m.PredKey(1)
	assert.False(t, ok, "pred of the minimum")
}

func TestMergeDisjointUniverses(t *testing.T) {
	a, err := New[uint, string](5, Veb.ByLogU)
	require.NoError(t, err)
	for _, k := range []uint{1, 9, 31} {
		a, err = a.Put(k, "a")
		require.NoError(t, err)
	}
	b, err := New[uint, string](9, Veb.ByLogU)
	require.NoError(t, err)
	for _, k := range []uint{100, 400} {
		b, err = b.Put(k, "b")
		require.NoError(t, err)
	}
	for _, m := range []VebMap[uint, string]{a.Merge(b), b.Merge(a)} {
		require.EqualValues(t, 512, m.Capacity())
		require.EqualValues(t, 5, m.Len())
		for _, k := range []uint{1, 9, 31} {
			assert.Equal(t, "a", m.Get(k, ""))
		}
		for _, k := range []uint{100, 400} {
			assert.Equal(t, "b", m.Get(k, ""))
		}
	}
}

func TestMergeValueSemantics(t *testing.T) {
	a, _ := From([]Entry[uint, int]{{1, 10}, {2, 20}}, 100, Veb.ByMax)
	b, _ := From([]Entry[uint, int]{{2, 200}, {3, 300}}, 100, Veb.ByMax)
	m := a.Merge(b)
	assert.Equal(t, 200, m.Get(2, 0), "right side wins on conflict")
	assert.Equal(t, 10, m.Get(1, 0))
	assert.Equal(t, 300, m.Get(3, 0))

	s := a.MergeFunc(b, func(_ uint, x, y int) int { return x + y })
	assert.Equal(t, 220, s.Get(2, 0))

	empty, _ := New[uint, int](100, Veb.ByMax)
	assert.True(t, Equal(a.Merge(empty), a), "merge with empty on the right")
	assert.True(t, Equal(empty.Merge(a), a), "merge with empty on the left")
}

func TestSmallEnumeration(t *testing.T) {
	m, err := From([]Entry[uint, string]{{5, "a"}, {1, "b"}, {9, "c"}}, 0, Veb.Auto)
	require.NoError(t, err)
	require.Equal(t,
		[]Entry[uint, string]{{1, "b"}, {5, "a"}, {9, "c"}},
		m.Entries())
	p, ok := m.PredKey(5)
	require.True(t, ok)
	assert.EqualValues(t, 1, p)
	s, ok := m.SuccKey(5)
	require.True(t, ok)
	assert.EqualValues(t, 9, s)
	_, ok = m.SuccKey(9)
	assert.False(t, ok)
}

func TestGetFetch(t *testing.T) {
	m, _ := From([]Entry[uint, string]{{5, "a"}}, 0, Veb.Auto)
	assert.Equal(t, "a", m.Get(5, "zz"))
	assert.Equal(t, "zz", m.Get(4, "zz"))
	v, ok := m.Fetch(5)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = m.Fetch(4)
	assert.False(t, ok)
	_, err := m.FetchStrict(4)
	var me *MissingKeyError
	require.ErrorAs(t, err, &me)
	assert.EqualValues(t, 4, me.Key)
	v, err = m.FetchStrict(5)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestDeleteDropPop(t *testing.T) {
	m, _ := From([]Entry[uint, int]{{1, 1}, {2, 2}, {3, 3}, {4, 4}}, 0, Veb.Auto)
	capacity := m.Capacity()
	m2 := m.Delete(2)
	assert.EqualValues(t, 3, m2.Len())
	assert.EqualValues(t, 4, m.Len(), "original version changed")
	assert.Equal(t, capacity, m2.Capacity(), "delete changed the capacity")
	assert.True(t, Equal(m2.Delete(2), m2), "deleting an absent key")

	m3 := m.Drop([]uint{1, 3, 9})
	assert.EqualValues(t, 2, m3.Len())
	assert.False(t, m3.HasKey(1))
	assert.True(t, m3.HasKey(2))

	v, m4 := m.Pop(4, -1)
	assert.Equal(t, 4, v)
	assert.False(t, m4.HasKey(4))
	v, m5 := m.Pop(40, -1)
	assert.Equal(t, -1, v)
	assert.True(t, Equal(m5, m))

	called := false
	v, _ = m.PopLazy(4, func() int { called = true; return -1 })
	assert.Equal(t, 4, v)
	assert.False(t, called, "default computed for a present key")
	v, _ = m.PopLazy(40, func() int { called = true; return -1 })
	assert.Equal(t, -1, v)
	assert.True(t, called)
}

func TestReplaceUpdate(t *testing.T) {
	m, _ := From([]Entry[uint, int]{{1, 1}, {2, 2}}, 0, Veb.Auto)
	assert.Equal(t, 7, m.Replace(1, 7).Get(1, 0))
	assert.True(t, Equal(m.Replace(9, 7), m), "replace of an absent key")
	_, err := m.ReplaceStrict(9, 7)
	var me *MissingKeyError
	require.ErrorAs(t, err, &me)

	m2, err := m.Update(1, 0, func(v int) int { return v * 10 })
	require.NoError(t, err)
	assert.Equal(t, 10, m2.Get(1, 0))
	m3, err := m.Update(3, 33, func(v int) int { return v * 10 })
	require.NoError(t, err)
	assert.Equal(t, 33, m3.Get(3, 0))
	_, err = m.UpdateStrict(3, func(v int) int { return v })
	require.ErrorAs(t, err, &me)

	old, m4, err := m.GetAndUpdate(2, func(v int, ok bool) (int, bool) {
		require.True(t, ok)
		return v + 1, true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, old)
	assert.Equal(t, 3, m4.Get(2, 0))
	_, m5, err := m.GetAndUpdate(2, func(int, bool) (int, bool) { return 0, false })
	require.NoError(t, err)
	assert.False(t, m5.HasKey(2), "callback asked for a pop")
}

func TestSplitTakeSlice(t *testing.T) {
	m, _ := From([]Entry[uint, int]{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}, 0, Veb.Auto)
	with, without := m.Split([]uint{2, 4, 9})
	assert.EqualValues(t, 2, with.Len())
	assert.EqualValues(t, 3, without.Len())
	assert.Equal(t, m.Capacity(), with.Capacity())
	assert.Equal(t, m.Capacity(), without.Capacity())
	assert.True(t, with.HasKey(2) && with.HasKey(4))
	assert.True(t, without.HasKey(1) && without.HasKey(3) && without.HasKey(5))

	taken := m.Take([]uint{1, 5, 70})
	assert.EqualValues(t, 2, taken.Len())
	assert.Equal(t, m.Capacity(), taken.Capacity())

	sl := m.Slice(1, 3)
	assert.Equal(t, []Entry[uint, int]{{2, 2}, {3, 3}, {4, 4}}, sl.Entries())
	assert.Equal(t, m.Capacity(), sl.Capacity())
	assert.EqualValues(t, 0, m.Slice(9, 3).Len())
}

func TestUpgradeCapacity(t *testing.T) {
	m, _ := From([]Entry[uint, int]{{1, 1}, {30, 30}}, 31, Veb.ByMax)
	require.EqualValues(t, 32, m.Capacity())
	_, err := m.Put(100, 100)
	require.Error(t, err)

	m2, err := m.UpgradeCapacity(1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1024, m2.Capacity())
	assert.True(t, Equal(m, m2), "entries changed by the upgrade")
	m2, err = m2.Put(100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, m2.Get(100, 0))

	var se *ShrinkError
	_, err = m.UpgradeCapacity(7)
	require.ErrorAs(t, err, &se)
	assert.EqualValues(t, 32, se.Capacity)
	assert.EqualValues(t, 7, se.NewLimit)
}

func TestCollect(t *testing.T) {
	m, err := New[uint, string](63, Veb.ByMax)
	require.NoError(t, err)
	src := []Entry[uint, string]{{9, "x"}, {3, "y"}, {9, "z"}}
	i := 0
	m, err = Collect(m, func() (uint, string, bool) {
		if i == len(src) {
			return 0, "", false
		}
		e := src[i]
		i++
		return e.Key, e.Val, true
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.Len())
	assert.Equal(t, "z", m.Get(9, ""), "later pair wins")
	assert.Equal(t, "y", m.Get(3, ""))
}

func TestSuspendResume(t *testing.T) {
	m, _ := From([]Entry[uint, int]{{1, 1}, {2, 2}, {3, 3}}, 0, Veb.Auto)
	next := m.Pairs()
	k, _, ok := next()
	require.True(t, ok)
	assert.EqualValues(t, 1, k)
	// mutate derived versions while the iterator is paused
	m2 := m.Delete(2)
	m3, _ := m.Put(2, 200)
	k, v, ok := next()
	require.True(t, ok)
	assert.EqualValues(t, 2, k)
	assert.Equal(t, 2, v, "paused iterator observed a derived version")
	k, _, ok = next()
	require.True(t, ok)
	assert.EqualValues(t, 3, k)
	_, _, ok = next()
	assert.False(t, ok)
	assert.EqualValues(t, 2, m2.Len())
	assert.Equal(t, 200, m3.Get(2, 0))
}

func TestIterators(t *testing.T) {
	m, _ := From([]Entry[uint, string]{{5, "a"}, {1, "b"}}, 0, Veb.Auto)
	nk := m.Keys()
	k, ok := nk()
	require.True(t, ok)
	assert.EqualValues(t, 1, k)
	nv := m.Values()
	v, ok := nv()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	var seen []uint
	m.Range(func(k uint, _ string) bool {
		seen = append(seen, k)
		return k < 5
	})
	assert.Equal(t, []uint{1, 5}, seen)

	total := Reduce(m, 0, func(acc int, k uint, _ string) int { return acc + int(k) })
	assert.Equal(t, 6, total)
}

func TestString(t *testing.T) {
	m, err := New[uint, string](16, Veb.ByU)
	require.NoError(t, err)
	m, _ = m.Put(5, "a")
	m, _ = m.Put(1, "b")
	assert.Equal(t, "Vebmap[capacity=16, elements=[(1, b), (5, a)]]", m.String())
	e, _ := New[uint, string](16, Veb.ByU)
	assert.Equal(t, "Vebmap[capacity=16, elements=[]]", e.String())
}

func TestEqual(t *testing.T) {
	a, _ := From([]Entry[uint, int]{{1, 1}, {2, 2}}, 100, Veb.ByMax)
	b, _ := From([]Entry[uint, int]{{2, 2}, {1, 1}}, 1000, Veb.ByMax)
	assert.True(t, Equal(a, b), "contents equal despite different capacities")
	c, _ := b.Put(3, 3)
	assert.False(t, Equal(a, c))
	d := b.Replace(2, 20)
	assert.False(t, Equal(a, d))
}

func TestCouplingInvariant(t *testing.T) {
	m, err := New[uint, uint](12, Veb.ByLogU)
	require.NoError(t, err)
	for i := 0; i < 5000; i++ {
		k := uint(rg.Intn(1 << 12))
		if rg.Intn(3) == 0 {
			m = m.Delete(k)
		} else {
			m, err = m.Put(k, k)
			require.NoError(t, err)
		}
	}
	require.EqualValues(t, m.Len(), m.Index().Len())
	next := m.Index().Ascend()
	for k, ok := next(); ok; k, ok = next() {
		require.True(t, m.HasKey(k), "index key %d missing from the map", k)
	}
	m.Range(func(k uint, _ uint) bool {
		require.True(t, m.Index().Has(k), "map key %d missing from the index", k)
		return true
	})
}
