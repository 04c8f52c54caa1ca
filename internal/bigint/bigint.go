// Package bigint provides the arbitrary-precision signed integer primitive
// used throughout the calculator core. It wraps math/big.Int behind the
// narrow capability set the interpreter actually needs: construction,
// copying, truncated division/remainder, bit testing, shifting, and
// rendering as text in base 10 or another base.
//
// No third-party arbitrary-precision library is used here; math/big plays
// the same "opaque external collaborator" role that GMP plays in the
// reference dc implementation (see DESIGN.md for why).
package bigint

import "math/big"

// Int is an arbitrary-precision signed integer.
type Int struct {
	v big.Int
}

// Zero returns a new Int with value 0.
func Zero() *Int {
	return &Int{}
}

// FromInt64 returns a new Int with the given value.
func FromInt64(n int64) *Int {
	i := &Int{}
	i.v.SetInt64(n)
	return i
}

// FromUint64 returns a new Int with the given value.
func FromUint64(n uint64) *Int {
	i := &Int{}
	i.v.SetUint64(n)
	return i
}

// Clone returns a deep copy of n.
func (n *Int) Clone() *Int {
	c := &Int{}
	c.v.Set(&n.v)
	return c
}

// Set assigns other's value to n and returns n.
func (n *Int) Set(other *Int) *Int {
	n.v.Set(&other.v)
	return n
}

// Sign returns -1, 0, or 1 depending on the sign of n.
func (n *Int) Sign() int {
	return n.v.Sign()
}

// Neg sets n to -n and returns n.
func (n *Int) Neg() *Int {
	n.v.Neg(&n.v)
	return n
}

// Cmp compares n to other, returning -1, 0, or 1.
func (n *Int) Cmp(other *Int) int {
	return n.v.Cmp(&other.v)
}

// CmpAbs compares |n| to |other|, returning -1, 0, or 1.
func (n *Int) CmpAbs(other *Int) int {
	return n.v.CmpAbs(&other.v)
}

// Add sets n = a + b and returns n.
func (n *Int) Add(a, b *Int) *Int {
	n.v.Add(&a.v, &b.v)
	return n
}

// Sub sets n = a - b and returns n.
func (n *Int) Sub(a, b *Int) *Int {
	n.v.Sub(&a.v, &b.v)
	return n
}

// Mul sets n = a * b and returns n.
func (n *Int) Mul(a, b *Int) *Int {
	n.v.Mul(&a.v, &b.v)
	return n
}

// MulUint64 sets n = a * b and returns n.
func (n *Int) MulUint64(a *Int, b uint64) *Int {
	var bb big.Int
	bb.SetUint64(b)
	n.v.Mul(&a.v, &bb)
	return n
}

// QuoTrunc sets n = a / b truncated toward zero and returns n.
// b must be non-zero.
func (n *Int) QuoTrunc(a, b *Int) *Int {
	n.v.Quo(&a.v, &b.v)
	return n
}

// RemTrunc sets n = a % b (truncated-division remainder) and returns n.
// b must be non-zero.
func (n *Int) RemTrunc(a, b *Int) *Int {
	n.v.Rem(&a.v, &b.v)
	return n
}

// QuoRemTrunc sets q = a/b and r = a%b (truncated toward zero).
func QuoRemTrunc(a, b *Int) (q, r *Int) {
	q, r = &Int{}, &Int{}
	q.v.QuoRem(&a.v, &b.v, &r.v)
	return q, r
}

// QuoUint64 sets n = a / b (b small and positive) and returns the
// truncated remainder as a uint64.
func (n *Int) QuoUint64(a *Int, b uint64) uint64 {
	var bb, rem big.Int
	bb.SetUint64(b)
	n.v.QuoRem(&a.v, &bb, &rem)
	return rem.Uint64()
}

// PowUint64 sets n = base^exp (exp a small non-negative integer) and
// returns n.
func (n *Int) PowUint64(base uint64, exp uint64) *Int {
	var b big.Int
	b.SetUint64(base)
	var e big.Int
	e.SetUint64(exp)
	n.v.Exp(&b, &e, nil)
	return n
}

// Shr sets n = a >> k (arithmetic right shift, truncating toward zero for
// the caller's purposes — dc's own shifts are always applied to
// non-negative magnitudes) and returns n.
func (n *Int) Shr(a *Int, k uint) *Int {
	n.v.Rsh(&a.v, k)
	return n
}

// TestBit reports whether bit k of n is set. n is treated as a two's
// complement value the way math/big.Int.Bit behaves for non-negative n,
// which is the only case the interpreter calls this on.
func (n *Int) TestBit(k uint) bool {
	return n.v.Bit(int(k)) != 0
}

// BitLen returns the number of bits required to represent |n|, with
// BitLen(0) == 0.
func (n *Int) BitLen() int {
	return n.v.BitLen()
}

// Uint64 returns n as a uint64 and reports whether the conversion was
// exact (n fit in 64 bits and was non-negative).
func (n *Int) Uint64() (value uint64, ok bool) {
	if n.v.Sign() < 0 || !n.v.IsUint64() {
		return 0, false
	}
	return n.v.Uint64(), true
}

// SetUint64 sets n to v and returns n.
func (n *Int) SetUint64(v uint64) *Int {
	n.v.SetUint64(v)
	return n
}

// SetInt64 sets n to v and returns n.
func (n *Int) SetInt64(v int64) *Int {
	n.v.SetInt64(v)
	return n
}

// String renders n in base 10.
func (n *Int) String() string {
	return n.v.String()
}

// Text renders n in the given base (2..36), matching math/big.Int.Text.
func (n *Int) Text(base int) string {
	return n.v.Text(base)
}

// Bytes returns the absolute value of n as a big-endian byte slice, with
// the same edge case as math/big: zero yields an empty slice.
func (n *Int) Bytes() []byte {
	return n.v.Bytes()
}

// LowByte returns n's value modulo 256 as an unsigned byte, matching a
// C cast of a (possibly negative) integer to unsigned char: negative
// values wrap rather than truncating to 0.
func (n *Int) LowByte() byte {
	var m, mod big.Int
	mod.SetInt64(256)
	m.Mod(&n.v, &mod)
	return byte(m.Uint64())
}
