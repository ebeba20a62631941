package aesgcm

import (
	"crypto/cipher"

	"github.com/ericlagergren/subtle"
)

// NonceSize is the nonce size reported by the AEAD returned by
// New. Seal and Open also accept nonces of any other length
// >= 1; non-96-bit nonces take the GHASH-derived counter path.
const NonceSize = 12

// New creates an AES-256-GCM AEAD with the round keys and hash
// subkey cached for the life of the returned value. The key must
// be KeySize bytes.
func New(key []byte) (cipher.AEAD, error) {
	rk, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	return &aead{rk: *rk, h: rk.hashSubkey()}, nil
}

type aead struct {
	rk RoundKeys
	h  fieldElement
}

var _ cipher.AEAD = (*aead)(nil)

func (*aead) NonceSize() int {
	return NonceSize
}

func (*aead) Overhead() int {
	return TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) == 0 {
		panic("aesgcm: empty nonce passed to Seal")
	}

	ret, out := subtle.SliceForAppend(dst, len(plaintext)+TagSize)
	if subtle.InexactOverlap(out, plaintext) {
		panic("aesgcm: invalid buffer overlap")
	}

	j0 := deriveJ0(nonce, a.h)
	a.rk.ctrXOR(out, plaintext, &j0)
	tag := a.rk.authTag(&j0, a.h, out[:len(plaintext)], additionalData)
	copy(out[len(plaintext):], tag[:])
	return ret
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) == 0 {
		panic("aesgcm: empty nonce passed to Open")
	}
	if len(ciphertext) < TagSize {
		return nil, ErrAuthentication
	}

	tag := ciphertext[len(ciphertext)-TagSize:]
	ciphertext = ciphertext[:len(ciphertext)-TagSize]

	ret, out := subtle.SliceForAppend(dst, len(ciphertext))
	if subtle.InexactOverlap(out, ciphertext) {
		panic("aesgcm: invalid buffer overlap")
	}

	j0 := deriveJ0(nonce, a.h)
	want := a.rk.authTag(&j0, a.h, ciphertext, additionalData)
	if subtle.ConstantTimeCompare(tag, want[:]) != 1 {
		return nil, ErrAuthentication
	}
	a.rk.ctrXOR(out, ciphertext, &j0)
	return ret, nil
}
