package aesgcm

import (
	"encoding/binary"
)

// fieldElement is an element of GF(2^128) in the bit order used
// by GHASH. The bits are stored big endian: the coefficient of
// x^0 is the most significant bit of low, the coefficient of
// x^127 the least significant bit of high.
type fieldElement struct {
	low, high uint64
}

func (z *fieldElement) setBytes(p []byte) {
	z.low = binary.BigEndian.Uint64(p[0:8])
	z.high = binary.BigEndian.Uint64(p[8:16])
}

// marshal returns the field element as a 16-byte block.
func (x fieldElement) marshal() [BlockSize]byte {
	var out [BlockSize]byte
	binary.BigEndian.PutUint64(out[0:8], x.low)
	binary.BigEndian.PutUint64(out[8:16], x.high)
	return out
}

// mul multiplies the two field elements modulo the polynomial
// x^128 + x^7 + x^2 + x + 1.
//
// It is the bit-serial algorithm from SP 800-38D: x's bits are
// consumed most significant first, and y is repeatedly divided
// by x, folding the bit that falls off the x^127 end back in as
// 11100001 in the top byte. This bit-reflected convention is
// load-bearing; a generic carry-less multiply computes a
// different function.
func (x fieldElement) mul(y fieldElement) fieldElement {
	var z fieldElement
	v := y
	for i := 0; i < 128; i++ {
		var bit uint64
		if i < 64 {
			bit = x.low >> (63 - i) & 1
		} else {
			bit = x.high >> (127 - i) & 1
		}
		if bit != 0 {
			z.low ^= v.low
			z.high ^= v.high
		}
		out := v.high & 1
		v.high = v.high>>1 | v.low<<63
		v.low >>= 1
		if out != 0 {
			v.low ^= 0xe100000000000000
		}
	}
	return z
}

// ghash is the running GHASH state for one hash subkey.
type ghash struct {
	h fieldElement
	y fieldElement
}

// updateBlocks folds full blocks into the hash by Horner's rule.
// len(blocks) must be a multiple of BlockSize.
func (g *ghash) updateBlocks(blocks []byte) {
	for len(blocks) > 0 {
		g.y.low ^= binary.BigEndian.Uint64(blocks[0:8])
		g.y.high ^= binary.BigEndian.Uint64(blocks[8:16])
		g.y = g.y.mul(g.h)
		blocks = blocks[BlockSize:]
	}
}

// update folds p into the hash, zero-padding a partial trailing
// block on the right.
func (g *ghash) update(p []byte) {
	n := len(p) &^ (BlockSize - 1)
	g.updateBlocks(p[:n])
	if rem := p[n:]; len(rem) > 0 {
		var blk [BlockSize]byte
		copy(blk[:], rem)
		g.updateBlocks(blk[:])
	}
}

// lengths folds in a block holding two big-endian 64-bit values,
// the final lengths block of the GHASH layouts.
func (g *ghash) lengths(a, b uint64) {
	var blk [BlockSize]byte
	binary.BigEndian.PutUint64(blk[0:8], a)
	binary.BigEndian.PutUint64(blk[8:16], b)
	g.updateBlocks(blk[:])
}

func (g *ghash) sum() [BlockSize]byte {
	return g.y.marshal()
}

// deriveJ0 computes the pre-counter block from the IV and the
// hash subkey.
//
// A 96-bit IV is used directly with a 1 counter appended. Every
// other length is rounded up to a block boundary and hashed with
// its bit length, per SP 800-38D. The branch is part of the GCM
// definition, not a shortcut.
func deriveJ0(iv []byte, h fieldElement) [BlockSize]byte {
	if len(iv) == 12 {
		var j0 [BlockSize]byte
		copy(j0[:], iv)
		j0[15] = 1
		return j0
	}
	g := ghash{h: h}
	g.update(iv)
	g.lengths(0, uint64(len(iv))*8)
	return g.sum()
}
