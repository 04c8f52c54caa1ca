// Package format renders Numbers and raw bytes to an io.Writer the way
// the reference calculator does: digits in an arbitrary output base,
// wrapped at a fixed line width with backslash-newline continuations,
// and a dedicated raw-byte mode for the "P" opcode.
package format

import (
	"io"

	"dcvm/internal/bigint"
	"dcvm/internal/number"
)

// LineWidth is the column at which digit output wraps with a trailing
// "\\\n" continuation, matching the reference formatter's default
// terminal width assumption.
const LineWidth = 70

const digitsUpper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PrintValue writes n in the given output base, preceded by prefix (used
// by callers that want a leading "-" handled separately, or no prefix at
// all), wrapping at LineWidth columns with "\\\n" continuations exactly
// as dc's output does. obase must be >= 2.
func PrintValue(w io.Writer, n *number.Number, prefix string, obase uint) (int, error) {
	digits, fracStart := digitsOf(n, obase)
	total := 0

	wr := &wrapWriter{w: w, width: LineWidth}

	if prefix != "" {
		if err := wr.writeString(prefix); err != nil {
			return wr.written, err
		}
	}
	if n.N.Sign() < 0 {
		if err := wr.writeString("-"); err != nil {
			return wr.written, err
		}
	}
	for i, d := range digits {
		if i == fracStart {
			if err := wr.writeString("."); err != nil {
				return wr.written, err
			}
		}
		if err := wr.writeString(digitGlyph(d, obase)); err != nil {
			return wr.written, err
		}
	}
	if err := wr.flush(); err != nil {
		return wr.written, err
	}
	total = wr.written
	return total, nil
}

// digitGlyph renders a single digit value. Bases above 16 render each
// digit as a space-separated decimal group (matching dc's convention for
// obase > 16); bases 16 and below use the standard hex alphabet.
func digitGlyph(d uint64, obase uint) string {
	if obase <= 16 {
		return string(digitsUpper[d])
	}
	return " " + itoa(d)
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// digitsOf decomposes n's magnitude into a sequence of base-obase
// digits (most significant first) and reports the index at which the
// fractional part begins (len(digits) when the number is an integer).
func digitsOf(n *number.Number, obase uint) (digits []uint64, fracStart int) {
	intPart, fracPart := number.Split(n)
	intPart = intPart.Clone()
	if intPart.Sign() < 0 {
		intPart.Neg()
	}

	var intDigits []uint64
	base := bigint.FromUint64(uint64(obase))
	if intPart.Sign() == 0 {
		intDigits = []uint64{0}
	} else {
		for intPart.Sign() != 0 {
			q, r := bigint.QuoRemTrunc(intPart, base)
			intDigits = append(intDigits, mustUint64(r))
			intPart = q
		}
		reverse(intDigits)
	}

	var fracDigits []uint64
	if n.Scale > 0 {
		fracDigits = fractionDigits(fracPart, n.Scale, obase)
	}

	digits = append(intDigits, fracDigits...)
	return digits, len(intDigits)
}

// fractionDigits renders the fractional tail (an integer 0 <= f <
// 10^scale representing f/10^scale) as obase digits by repeated
// multiply-and-take-integer-part, the standard radix conversion for a
// fractional value, carried out in exact scaled-integer arithmetic.
func fractionDigits(frac *bigint.Int, scale uint, obase uint) []uint64 {
	denom := bigint.Zero().PowUint64(10, uint64(scale))
	numer := frac.Clone()
	base := bigint.FromUint64(uint64(obase))

	var digits []uint64
	// Produce roughly as many output digits as decimal digits of
	// precision the scale affords, matching the reference's fixed
	// per-value output width for fractional parts.
	count := int(scale)
	for i := 0; i < count; i++ {
		numer.Mul(numer, base)
		q, r := bigint.QuoRemTrunc(numer, denom)
		digits = append(digits, mustUint64(q))
		numer = r
	}
	return digits
}

func mustUint64(n *bigint.Int) uint64 {
	v, _ := n.Uint64()
	return v
}

func reverse(s []uint64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// PrintAscii writes n's integer part as a base-256 big-endian byte
// string (dc's "P" opcode semantics for a Number).
func PrintAscii(w io.Writer, n *number.Number) (int, error) {
	intPart, _ := number.Split(n)
	intPart = intPart.Clone()
	if intPart.Sign() < 0 {
		intPart.Neg()
	}
	bs := intPart.Bytes()
	if len(bs) == 0 {
		bs = []byte{0}
	}
	return w.Write(bs)
}

// wrapWriter inserts a "\\\n" continuation whenever the running column
// count would exceed width, mirroring the reference formatter's
// terminal-width wrapping.
type wrapWriter struct {
	w       io.Writer
	width   int
	col     int
	written int
}

func (ww *wrapWriter) writeString(s string) error {
	for _, b := range []byte(s) {
		if ww.col >= ww.width-1 {
			if _, err := ww.w.Write([]byte("\\\n")); err != nil {
				return err
			}
			ww.col = 0
		}
		if _, err := ww.w.Write([]byte{b}); err != nil {
			return err
		}
		ww.written++
		ww.col++
	}
	return nil
}

func (ww *wrapWriter) flush() error {
	return nil
}
