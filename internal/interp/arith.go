package interp

import (
	"dcvm/internal/bigint"
	"dcvm/internal/number"
	"dcvm/internal/value"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opMod
	opExp
)

// arithBinary implements every two-operand numeric opcode under the
// uniform pop-right-then-left, restore-on-shortage discipline of §4.2:
// the right operand is popped first, then the left; if only one operand
// is available it is restored and the opcode is silently a no-op.
func (ip *Interp) arithBinary(op binaryOp) error {
	a, ok := ip.M.Stack.Pop() // right operand, popped first
	if !ok {
		return nil
	}
	b, ok := ip.M.Stack.Pop() // left operand
	if !ok {
		ip.M.Stack.Push(a)
		return nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		// Restore both operands untouched; arithmetic opcodes only
		// operate on Numbers.
		ip.M.Stack.Push(b)
		ip.M.Stack.Push(a)
		return nil
	}

	scale := ip.M.Scale
	switch op {
	case opAdd:
		ip.M.Stack.Push(value.NumberValue(badd(b.Number, a.Number)))
	case opSub:
		ip.M.Stack.Push(value.NumberValue(bsub(b.Number, a.Number)))
	case opMul:
		ip.M.Stack.Push(value.NumberValue(bmul(b.Number, a.Number, scale)))
	case opDiv:
		r, ok := bdiv(b.Number, a.Number, scale)
		if !ok {
			ip.warn("divide by zero")
		}
		ip.M.Stack.Push(value.NumberValue(r))
	case opMod:
		r, ok := bmod(b.Number, a.Number, scale)
		if !ok {
			ip.warn("remainder by zero")
		}
		ip.M.Stack.Push(value.NumberValue(r))
	case opExp:
		ip.M.Stack.Push(value.NumberValue(ip.bexp(b.Number, a.Number)))
	}
	return nil
}

func (ip *Interp) opDivmod() error {
	a, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	b, ok := ip.M.Stack.Pop()
	if !ok {
		ip.M.Stack.Push(a)
		return nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		ip.M.Stack.Push(b)
		ip.M.Stack.Push(a)
		return nil
	}
	q, r, ok := bdivmod(b.Number, a.Number, ip.M.Scale)
	if !ok {
		ip.warn("divide by zero")
	}
	ip.M.Stack.Push(value.NumberValue(q))
	ip.M.Stack.Push(value.NumberValue(r))
	return nil
}

func (ip *Interp) opSqrt() error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	if !v.IsNumber() {
		ip.M.Stack.Push(v)
		return nil
	}
	if v.Number.N.Sign() < 0 {
		ip.warn("square root of negative number")
		ip.M.Stack.Push(v)
		return nil
	}
	ip.M.Stack.Push(value.NumberValue(bsqrt(v.Number, ip.M.Scale)))
	return nil
}

// commonScale is the larger of two operand scales.
func commonScale(a, b *number.Number) uint {
	if a.Scale > b.Scale {
		return a.Scale
	}
	return b.Scale
}

// badd and bsub normalize both operands to their common scale and
// perform raw integer addition/subtraction at that scale.
func badd(b, a *number.Number) *number.Number {
	scale := commonScale(a, b)
	ac, bc := a.Clone(), b.Clone()
	number.Normalize(ac, scale)
	number.Normalize(bc, scale)
	return &number.Number{N: bigint.Zero().Add(bc.N, ac.N), Scale: scale}
}

func bsub(b, a *number.Number) *number.Number {
	scale := commonScale(a, b)
	ac, bc := a.Clone(), b.Clone()
	number.Normalize(ac, scale)
	number.Normalize(bc, scale)
	return &number.Number{N: bigint.Zero().Sub(bc.N, ac.N), Scale: scale}
}

// bmul multiplies raw integers and sums scales; only here may the
// product be truncated, down to max(machineScale, a.scale, b.scale).
func bmul(b, a *number.Number, machineScale uint) *number.Number {
	prod := bigint.Zero().Mul(b.N, a.N)
	rscale := a.Scale + b.Scale

	scaleCap := machineScale
	if commonScale(a, b) > scaleCap {
		scaleCap = commonScale(a, b)
	}
	if rscale > scaleCap {
		number.ScaleInt(prod, int(scaleCap)-int(rscale))
		rscale = scaleCap
	}
	return &number.Number{N: prod, Scale: rscale}
}

// bdiv implements "/": result scale is always the machine scale. b is
// normalized to common+machineScale, a to common, then divided with
// truncation toward zero. ok is false on division by zero, in which
// case a zero Number of the correct scale is still returned.
func bdiv(b, a *number.Number, machineScale uint) (*number.Number, bool) {
	if a.N.Sign() == 0 {
		return number.ZeroScaled(machineScale), false
	}
	common := commonScale(a, b)
	bc, ac := b.Clone(), a.Clone()
	number.Normalize(bc, common+machineScale)
	number.Normalize(ac, common)
	q := bigint.Zero().QuoTrunc(bc.N, ac.N)
	return &number.Number{N: q, Scale: machineScale}, true
}

// bmod pairs with bdiv: same normalized operands, remainder retained,
// scale max(b.scale, a.scale + machineScale).
func bmod(b, a *number.Number, machineScale uint) (*number.Number, bool) {
	rscale := b.Scale
	if a.Scale+machineScale > rscale {
		rscale = a.Scale + machineScale
	}
	if a.N.Sign() == 0 {
		return number.ZeroScaled(rscale), false
	}
	common := commonScale(a, b)
	bc, ac := b.Clone(), a.Clone()
	number.Normalize(bc, common+machineScale)
	number.Normalize(ac, common)
	_, r := bigint.QuoRemTrunc(bc.N, ac.N)
	return &number.Number{N: r, Scale: rscale}, true
}

// bdivmod computes both results of a single division atomically, with
// the combined scales of bdiv and bmod above.
func bdivmod(b, a *number.Number, machineScale uint) (q, r *number.Number, ok bool) {
	rscale := b.Scale
	if a.Scale+machineScale > rscale {
		rscale = a.Scale + machineScale
	}
	if a.N.Sign() == 0 {
		return number.ZeroScaled(machineScale), number.ZeroScaled(rscale), false
	}
	common := commonScale(a, b)
	bc, ac := b.Clone(), a.Clone()
	number.Normalize(bc, common+machineScale)
	number.Normalize(ac, common)
	qi, ri := bigint.QuoRemTrunc(bc.N, ac.N)
	return &number.Number{N: qi, Scale: machineScale}, &number.Number{N: ri, Scale: rscale}, true
}

// bexp is exponentiation by repeated squaring: the exponent is the
// operand popped first and the base the one popped second (the exponent
// is integer-truncated; a non-integer exponent warns but still truncates). Precision is NOT capped at the final
// result scale throughout the loop: the running square carries its own
// scale, ascale, which doubles before every squaring, and the
// accumulated result multiply carries mscale, which grows by the same
// amount whenever a squared term is folded in. Truncation to rscale
// happens exactly once, at the very end.
func (ip *Interp) bexp(base, exponent *number.Number) *number.Number {
	expInt, expFrac := number.Split(exponent)
	if expFrac.Sign() != 0 {
		ip.warn("Runtime warning: non-zero fractional part in exponent")
	}

	neg := expInt.Sign() < 0
	p := expInt.Clone()
	if neg {
		p.Neg()
	}

	var rscale uint
	if neg {
		rscale = ip.M.Scale
	} else {
		e, exact := p.Uint64()
		m := base.Scale
		if ip.M.Scale > m {
			m = ip.M.Scale
		}
		if !exact || overflowsScale(base.Scale, e) {
			rscale = m
		} else {
			rscale = base.Scale * uint(e)
			if rscale > m {
				rscale = m
			}
		}
	}

	if p.Sign() == 0 {
		result := number.FromInt64(1)
		number.Normalize(result, rscale)
		return result
	}

	a := base.Clone()
	ascale := a.Scale

	for !p.TestBit(0) {
		ascale *= 2
		a = bmul(a, a, ascale)
		p.Shr(p, 1)
	}

	result := a.Clone()
	p.Shr(p, 1)

	mscale := ascale
	for p.Sign() != 0 {
		ascale *= 2
		a = bmul(a, a, ascale)
		if p.TestBit(0) {
			mscale += ascale
			result = bmul(result, a, mscale)
		}
		p.Shr(p, 1)
	}

	if neg {
		if result.N.Sign() == 0 {
			ip.warn("divide by zero")
			return number.ZeroScaled(rscale)
		}
		one := bigint.Zero().PowUint64(10, uint64(result.Scale+rscale))
		q := bigint.Zero().QuoTrunc(one, result.N)
		return &number.Number{N: q, Scale: rscale}
	}

	number.Normalize(result, rscale)
	return result
}

// overflowsScale reports whether base.Scale * e would overflow a uint,
// the conservative clamp condition noted in the design commentary on
// the reference's exponent scale handling.
func overflowsScale(scale uint, e uint64) bool {
	if scale == 0 || e == 0 {
		return false
	}
	return e > (^uint(0))/scale
}

// bsqrt implements Newton's method exactly as specified in §4.2: scale
// up to 2*max(machineScale, n.scale), seed from the bit length, iterate
// until two successive deltas both equal 1 or a delta reaches 0.
func bsqrt(n *number.Number, machineScale uint) *number.Number {
	if n.N.Sign() == 0 {
		return number.ZeroScaled(machineScale)
	}

	scale := n.Scale
	if machineScale > scale {
		scale = machineScale
	}

	c := n.Clone()
	number.Normalize(c, 2*scale)

	x := c.N.Clone()
	x.Shr(x, uint(c.N.BitLen()/2))
	if x.Sign() == 0 {
		x = bigint.FromInt64(1)
	}

	prevDelta := int64(-1)
	for {
		q := bigint.Zero().QuoTrunc(c.N, x)
		sum := bigint.Zero().Add(x, q)
		next := bigint.Zero()
		next.QuoUint64(sum, 2)

		diff := bigint.Zero().Sub(x, next)
		if diff.Sign() < 0 {
			diff.Neg()
		}
		deltaVal, _ := diff.Uint64()
		delta := int64(deltaVal)

		x = next
		if delta == 0 {
			break
		}
		if delta == 1 && prevDelta == 1 {
			break
		}
		prevDelta = delta
	}

	return &number.Number{N: x, Scale: scale}
}
