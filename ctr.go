package aesgcm

import (
	"encoding/binary"
)

// inc32 increments the rightmost 32 bits of the counter block as
// a big-endian integer, wrapping modulo 2^32. The first 12 bytes
// are never touched; GCM's counter field is 32 bits wide.
func inc32(counter *[BlockSize]byte) {
	n := binary.BigEndian.Uint32(counter[12:]) + 1
	binary.BigEndian.PutUint32(counter[12:], n)
}

// ctrXOR XORs src with the counter-mode keystream seeded by j0
// and writes the result to dst. Encryption and decryption are
// the same operation. dst must be at least len(src) bytes and
// may alias src exactly.
func (rk *RoundKeys) ctrXOR(dst, src []byte, j0 *[BlockSize]byte) {
	counter := *j0
	var ks [BlockSize]byte
	for len(src) > 0 {
		inc32(&counter)
		rk.Encrypt(&ks, &counter)
		n := len(src)
		if n > BlockSize {
			n = BlockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		dst, src = dst[n:], src[n:]
	}
}
