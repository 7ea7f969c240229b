package vebmap

import (
	"math/bits"
)

// NewBitArray returns a BitArray capable of holding indexes [0, size).
func NewBitArray(size uint) BitArray {
	return BitArray{bits: make([]uint, (size+bits.UintSize-1)/bits.UintSize)}
}

// BitArray is a fixed-size dense bit set. The zero value is an empty array of
// length 0. It is the dense companion of the sparse structures in Veb: one bit
// per possible key, O(1) Get/Up/Down.
type BitArray struct {
	bits []uint
}

func (u BitArray) Len() uint {
	return uint(len(u.bits)) * bits.UintSize
}

func (u BitArray) Get(i uint) bool {
	return (u.bits[i/bits.UintSize]>>(i%bits.UintSize))&1 == 1
}

func (u BitArray) Up(i uint) {
	u.bits[i/bits.UintSize] |= 1 << (i % bits.UintSize)
}

func (u BitArray) Down(i uint) {
	u.bits[i/bits.UintSize] &^= 1 << (i % bits.UintSize)
}

// Count returns the number of raised bits.
func (u BitArray) Count() uint {
	c := 0
	for _, w := range u.bits {
		c += bits.OnesCount(w)
	}
	return uint(c)
}

// NextUp returns the smallest raised index >= i, or false if none exists.
func (u BitArray) NextUp(i uint) (uint, bool) {
	if w := int(i / bits.UintSize); w < len(u.bits) {
		if t := u.bits[w] >> (i % bits.UintSize); t != 0 {
			return i + uint(bits.TrailingZeros(t)), true
		}
		for w++; w < len(u.bits); w++ {
			if u.bits[w] != 0 {
				return uint(w)*bits.UintSize + uint(bits.TrailingZeros(u.bits[w])), true
			}
		}
	}
	return 0, false
}
