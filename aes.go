package aesgcm

import (
	"fmt"
)

const numRounds = 14

// RoundKeys is the expanded AES-256 key schedule: one 16-byte
// round key for the initial AddRoundKey plus one for each of the
// 14 rounds.
type RoundKeys [numRounds + 1][BlockSize]byte

// ExpandKey expands a 32-byte key into its round key schedule.
func ExpandKey(key []byte) (*RoundKeys, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrKeySize, len(key), KeySize)
	}

	var w [(numRounds + 1) * BlockSize]byte
	copy(w[:], key)
	for i := KeySize; i < len(w); i += 4 {
		var t [4]byte
		copy(t[:], w[i-4:i])
		switch {
		case i%32 == 0:
			// RotWord then SubWord, then fold in the round
			// constant.
			t[0], t[1], t[2], t[3] = sbox[t[1]], sbox[t[2]], sbox[t[3]], sbox[t[0]]
			t[0] ^= rcon[i/32-1]
		case i%32 == 16:
			t[0], t[1], t[2], t[3] = sbox[t[0]], sbox[t[1]], sbox[t[2]], sbox[t[3]]
		}
		for j := range t {
			w[i+j] = t[j] ^ w[i-32+j]
		}
	}

	var rk RoundKeys
	for i := range rk {
		copy(rk[i][:], w[i*BlockSize:(i+1)*BlockSize])
	}
	return &rk, nil
}

// EncryptBlock encrypts one 16-byte block with a 32-byte key.
//
// It expands the key on every call. Callers encrypting more than
// one block should use ExpandKey once and Encrypt instead.
func EncryptBlock(block, key []byte) ([BlockSize]byte, error) {
	var out [BlockSize]byte
	if len(block) != BlockSize {
		return out, fmt.Errorf("aesgcm: invalid block size: got %d, want %d",
			len(block), BlockSize)
	}
	rk, err := ExpandKey(key)
	if err != nil {
		return out, err
	}
	var src [BlockSize]byte
	copy(src[:], block)
	rk.Encrypt(&out, &src)
	return out, nil
}

// Encrypt encrypts the block src into dst. dst and src may alias.
func (rk *RoundKeys) Encrypt(dst, src *[BlockSize]byte) {
	var s [BlockSize]byte
	for i := range s {
		s[i] = src[i] ^ rk[0][i]
	}
	for r := 1; r < numRounds; r++ {
		subBytes(&s)
		shiftRows(&s)
		mixColumns(&s)
		addRoundKey(&s, &rk[r])
	}
	// The final round skips MixColumns.
	subBytes(&s)
	shiftRows(&s)
	addRoundKey(&s, &rk[numRounds])
	*dst = s
}

func subBytes(s *[BlockSize]byte) {
	for i, b := range s {
		s[i] = sbox[b]
	}
}

// shiftRows rotates row r of the column-major state left by r.
func shiftRows(s *[BlockSize]byte) {
	var t [BlockSize]byte
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[c*4+r] = s[(c+r)%4*4+r]
		}
	}
	*s = t
}

func mixColumns(s *[BlockSize]byte) {
	for c := 0; c < 4; c++ {
		s0, s1, s2, s3 := s[c*4], s[c*4+1], s[c*4+2], s[c*4+3]
		s[c*4] = mul2[s0] ^ mul3[s1] ^ s2 ^ s3
		s[c*4+1] = s0 ^ mul2[s1] ^ mul3[s2] ^ s3
		s[c*4+2] = s0 ^ s1 ^ mul2[s2] ^ mul3[s3]
		s[c*4+3] = mul3[s0] ^ s1 ^ s2 ^ mul2[s3]
	}
}

func addRoundKey(s, rk *[BlockSize]byte) {
	for i := range s {
		s[i] ^= rk[i]
	}
}
