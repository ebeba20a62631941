// Package aesgcm implements AES-256-GCM from first principles:
// its own AES-256 key schedule and block cipher, its own GHASH
// over GF(2^128), and counter-mode encryption, with tag
// verification performed before any plaintext is derived.
//
// Unlike most GCM implementations it accepts initialization
// vectors of any length >= 1, not only the standard 96-bit
// nonce; other lengths take the GHASH-based pre-counter path
// from SP 800-38D.
//
// The implementation is pure Go. The S-box and field table
// lookups are not hardened against cache-timing attacks.
package aesgcm

import (
	"errors"
	"fmt"

	"github.com/ericlagergren/subtle"
)

const (
	// KeySize is the size in bytes of an AES-256 key.
	KeySize = 32
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// TagSize is the size in bytes of a GCM authentication tag.
	TagSize = 16
)

var (
	// ErrKeySize is returned when a key is not KeySize bytes.
	ErrKeySize = errors.New("aesgcm: invalid key size")
	// ErrTagSize is returned when a tag passed to Decrypt is
	// not TagSize bytes.
	ErrTagSize = errors.New("aesgcm: invalid tag size")
	// ErrIVSize is returned when the IV is empty.
	ErrIVSize = errors.New("aesgcm: IV must be at least one byte")
	// ErrAuthentication is returned when the ciphertext,
	// additional data, or tag has been tampered with.
	ErrAuthentication = errors.New("aesgcm: message authentication failed")
)

// Encrypt encrypts and authenticates plaintext, and
// authenticates additionalData, returning the ciphertext and
// authentication tag.
//
// The key must be KeySize bytes and the IV at least one byte.
// additionalData may be nil.
func Encrypt(key, iv, plaintext, additionalData []byte) ([]byte, [TagSize]byte, error) {
	var tag [TagSize]byte
	rk, err := ExpandKey(key)
	if err != nil {
		return nil, tag, err
	}
	if len(iv) == 0 {
		return nil, tag, ErrIVSize
	}

	h := rk.hashSubkey()
	j0 := deriveJ0(iv, h)

	ciphertext := make([]byte, len(plaintext))
	rk.ctrXOR(ciphertext, plaintext, &j0)
	tag = rk.authTag(&j0, h, ciphertext, additionalData)
	return ciphertext, tag, nil
}

// Decrypt authenticates ciphertext and additionalData against
// tag and, only if they verify, decrypts and returns the
// plaintext.
//
// The tag comparison is constant time over all TagSize bytes.
// On authentication failure no plaintext is derived and
// ErrAuthentication is the only output.
func Decrypt(key, iv, ciphertext, tag, additionalData []byte) ([]byte, error) {
	rk, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	if len(iv) == 0 {
		return nil, ErrIVSize
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrTagSize, len(tag), TagSize)
	}

	h := rk.hashSubkey()
	j0 := deriveJ0(iv, h)

	want := rk.authTag(&j0, h, ciphertext, additionalData)
	if subtle.ConstantTimeCompare(tag, want[:]) != 1 {
		return nil, ErrAuthentication
	}

	plaintext := make([]byte, len(ciphertext))
	rk.ctrXOR(plaintext, ciphertext, &j0)
	return plaintext, nil
}

// hashSubkey derives H, the GHASH subkey, by encrypting the
// zero block.
func (rk *RoundKeys) hashSubkey() fieldElement {
	var zero, h [BlockSize]byte
	rk.Encrypt(&h, &zero)
	var fe fieldElement
	fe.setBytes(h[:])
	return fe
}

// authTag computes the authentication tag over additionalData
// and ciphertext: each is hashed zero-padded to a block
// boundary, followed by their bit lengths, and the result is
// masked with the encrypted pre-counter block.
func (rk *RoundKeys) authTag(j0 *[BlockSize]byte, h fieldElement, ciphertext, additionalData []byte) [TagSize]byte {
	g := ghash{h: h}
	g.update(additionalData)
	g.update(ciphertext)
	g.lengths(uint64(len(additionalData))*8, uint64(len(ciphertext))*8)
	tag := g.sum()

	var mask [BlockSize]byte
	rk.Encrypt(&mask, j0)
	for i := range tag {
		tag[i] ^= mask[i]
	}
	return tag
}
