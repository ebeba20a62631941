package aesgcm

import (
	"bytes"
	"testing"
	"time"

	"golang.org/x/exp/rand"
)

func feFromHex(s string) fieldElement {
	var fe fieldElement
	fe.setBytes(unhex(s))
	return fe
}

// one is the multiplicative identity of the field: the
// polynomial 1, whose coefficient sits in the most significant
// bit of the first byte.
var one = fieldElement{low: 1 << 63}

// TestMulIdentity tests that 1 is the multiplicative identity.
func TestMulIdentity(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 1e4; i++ {
		x := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		if got := x.mul(one); got != x {
			t.Fatalf("%#0.16x%0.16x * 1 = %#0.16x%0.16x", x.low, x.high, got.low, got.high)
		}
		if got := one.mul(x); got != x {
			t.Fatalf("1 * %#0.16x%0.16x = %#0.16x%0.16x", x.low, x.high, got.low, got.high)
		}
	}
}

// TestMulCommutative tests that mul is commutative, a required
// property for multiplication.
func TestMulCommutative(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 1e4; i++ {
		x := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		y := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		xy, yx := x.mul(y), y.mul(x)
		if xy != yx {
			t.Fatalf("x*y != y*x: %#0.16x%0.16x != %#0.16x%0.16x",
				xy.low, xy.high, yx.low, yx.high)
		}
	}
}

// TestMulDistributive tests that mul distributes over XOR, the
// field's addition.
func TestMulDistributive(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 1e4; i++ {
		x := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		y := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		z := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		xz, yz := x.mul(z), y.mul(z)
		sum := fieldElement{low: x.low ^ y.low, high: x.high ^ y.high}
		want := fieldElement{low: xz.low ^ yz.low, high: xz.high ^ yz.high}
		if got := sum.mul(z); got != want {
			t.Fatalf("(x+y)*z != x*z + y*z: %#0.16x%0.16x != %#0.16x%0.16x",
				got.low, got.high, want.low, want.high)
		}
	}
}

// TestMulZero tests absorption by zero.
func TestMulZero(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 1e4; i++ {
		x := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
		if got := x.mul(fieldElement{}); got != (fieldElement{}) {
			t.Fatalf("x*0 != 0: %#0.16x%0.16x", got.low, got.high)
		}
	}
}

// TestGHASHVectors tests the hash against values computed for
// H = E(K, 0^128) with the 256-bit key from the SP 800-38D
// example vectors.
func TestGHASHVectors(t *testing.T) {
	h := feFromHex("acbef20579b4b8ebce889bac8732dad7")
	for i, tc := range []struct {
		data string
		want string
	}{
		{
			data: "",
			want: "00000000000000000000000000000000",
		},
		{
			data: "000102030405060708090a0b0c0d0e0f",
			want: "5b65d0df8fc80baa3dcbcba583b2c0a5",
		},
		// Partial trailing block, zero-padded on the right.
		{
			data: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
			want: "965393c829e930bd13d5a208f0a2ac8e",
		},
	} {
		g := ghash{h: h}
		g.update(unhex(tc.data))
		if got, want := g.sum(), unhex(tc.want); !bytes.Equal(got[:], want) {
			t.Errorf("#%d: expected %x, got %x", i, want, got)
		}
	}
}

// TestGHASHSplitUpdates is a quick test that chunked update
// calls on block boundaries match a single update.
func TestGHASHSplitUpdates(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(seed))

	h := fieldElement{low: rng.Uint64(), high: rng.Uint64()}
	buf := make([]byte, 56*BlockSize)
	rng.Read(buf)

	w := ghash{h: h}
	w.update(buf)
	want := w.sum()

	s := ghash{h: h}
	for b := buf; len(b) > 0; b = b[BlockSize:] {
		s.update(b[:BlockSize])
	}
	if got := s.sum(); got != want {
		t.Fatalf("mismatch: %x vs %x", got, want)
	}
}

// TestDeriveJ096BitIV tests the 96-bit branch: the IV is used
// verbatim with a big-endian 1 appended.
func TestDeriveJ096BitIV(t *testing.T) {
	h := feFromHex("acbef20579b4b8ebce889bac8732dad7")
	iv := unhex("0102030405060708090a0b0c")
	want := unhex("0102030405060708090a0b0c00000001")
	if got := deriveJ0(iv, h); !bytes.Equal(got[:], want) {
		t.Fatalf("expected %x, got %x", want, got)
	}
}

// TestDeriveJ0GHASHBranch tests the general branch against
// values computed from GHASH(iv || pad || len64(iv)) with
// H = acbef20579b4b8ebce889bac8732dad7.
func TestDeriveJ0GHASHBranch(t *testing.T) {
	h := feFromHex("acbef20579b4b8ebce889bac8732dad7")
	for _, tc := range []struct {
		ivLen int
		want  string
	}{
		{1, "846f985f8d9afda7082974ccb2171d00"},
		{8, "126abab2fed000e54e5cdd8d9ff13698"},
		{16, "5489abe29b182cdac11ae13443c301e6"},
		{32, "f0af1d7a21318f114b93091499358539"},
		{60, "32308e732e7daf056690caec40b8e815"},
	} {
		iv := make([]byte, tc.ivLen)
		for i := range iv {
			iv[i] = byte(i + 1)
		}
		got := deriveJ0(iv, h)
		if want := unhex(tc.want); !bytes.Equal(got[:], want) {
			t.Errorf("iv length %d: expected %x, got %x", tc.ivLen, want, got)
		}
	}
}

var feSink fieldElement

func BenchmarkMul(b *testing.B) {
	b.SetBytes(BlockSize)
	x := fieldElement{low: rand.Uint64(), high: rand.Uint64()}
	y := fieldElement{low: rand.Uint64(), high: rand.Uint64()}
	for i := 0; i < b.N; i++ {
		x = x.mul(y)
	}
	feSink = x
}
