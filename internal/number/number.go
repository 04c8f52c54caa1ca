// Package number implements the scaled arbitrary-precision rational used
// as the calculator's single numeric type: value = n / 10^scale.
package number

import "dcvm/internal/bigint"

// powersOf10 short-circuits scale shifts of 9 digits or fewer, mirroring
// the reference implementation's small lookup table.
var powersOf10 = [...]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000,
}

// Number is a scaled integer representing the rational n / 10^Scale.
// Scale is a contract, not a normal form: two Numbers with equal rational
// value but different Scale are distinct (no implicit trailing-zero
// normalization is ever performed).
type Number struct {
	N     *bigint.Int
	Scale uint
}

// Zero returns a new Number equal to 0 at scale 0.
func Zero() *Number {
	return &Number{N: bigint.Zero()}
}

// ZeroScaled returns a new Number equal to 0 at the given scale.
func ZeroScaled(scale uint) *Number {
	return &Number{N: bigint.Zero(), Scale: scale}
}

// FromInt64 returns a new Number with integer value v at scale 0.
func FromInt64(v int64) *Number {
	return &Number{N: bigint.FromInt64(v)}
}

// Clone returns a deep copy of n.
func (n *Number) Clone() *Number {
	return &Number{N: n.N.Clone(), Scale: n.Scale}
}

// ScaleInt multiplies n by 10^s when s > 0, or divides it (truncating
// toward zero) by 10^|s| when s < 0. s == 0 is a no-op. This mutates n
// in place.
func ScaleInt(n *bigint.Int, s int) {
	if s == 0 {
		return
	}
	abs := s
	if abs < 0 {
		abs = -abs
	}
	if abs < len(powersOf10) {
		p := powersOf10[abs]
		if s > 0 {
			n.MulUint64(n, p)
		} else {
			n.QuoUint64(n, p)
		}
		return
	}
	pow := bigint.Zero().PowUint64(10, uint64(abs))
	if s > 0 {
		n.Mul(n, pow)
	} else {
		n.QuoTrunc(n, pow)
	}
}

// Split returns the integer part (truncated toward zero) and the
// non-negative fractional tail (less than 10^n.Scale) of n. Defined for
// any scale, including zero.
func Split(n *Number) (intPart, fracPart *bigint.Int) {
	if n.Scale == 0 {
		return n.N.Clone(), bigint.Zero()
	}
	if n.Scale < uint(len(powersOf10)) {
		p := bigint.FromUint64(powersOf10[n.Scale])
		q, r := bigint.QuoRemTrunc(n.N, p)
		if r.Sign() < 0 {
			r.Neg()
		}
		return q, r
	}
	pow := bigint.Zero().PowUint64(10, uint64(n.Scale))
	q, r := bigint.QuoRemTrunc(n.N, pow)
	if r.Sign() < 0 {
		r.Neg()
	}
	return q, r
}

// Normalize rescales n to the target scale s, the sole mechanism for
// aligning two Numbers to a common scale before additive or comparison
// operations.
func Normalize(n *Number, s uint) {
	ScaleInt(n.N, int(s)-int(n.Scale))
	n.Scale = s
}

// digitFactor is floor(2^32 * log10(2)), used to estimate decimal digit
// counts from a bit length without repeated division.
const digitFactor uint64 = 1292913986

// CountDigits returns the number of significant decimal digits in n: the
// digit count of its integer part plus its scale. Returns n.Scale when
// n is exactly zero.
func CountDigits(n *Number) uint {
	if n.N.Sign() == 0 {
		return n.Scale
	}

	intPart, _ := Split(n)
	bits := intPart.BitLen()

	var d uint
	if bits != 0 {
		d = uint((digitFactor * uint64(bits)) >> 32)
		if d != uint((digitFactor*uint64(bits-1))>>32) {
			threshold := bigint.Zero().PowUint64(10, uint64(d))
			if intPart.CmpAbs(threshold) >= 0 {
				d++
			}
		} else {
			d++
		}
	}

	return d + n.Scale
}

// Ulong normalizes a clone of n to scale 0 and returns it as a uint64,
// along with whether the conversion was exact. Callers must check ok
// before trusting the value; a false return is dc's "could not fit in a
// ulong" sentinel condition, signaled explicitly instead of a magic
// GMP_NUMB_MASK value.
func Ulong(n *Number) (value uint64, ok bool) {
	c := n.Clone()
	Normalize(c, 0)
	return c.N.Uint64()
}

// Compare is the total-order comparison of two Numbers after aligning
// their scales to the larger of the two. It mutates neither input.
func Compare(a, b *Number) int {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	ac, bc := a.Clone(), b.Clone()
	if scale > ac.Scale {
		Normalize(ac, scale)
	}
	if scale > bc.Scale {
		Normalize(bc, scale)
	}
	return ac.N.Cmp(bc.N)
}
