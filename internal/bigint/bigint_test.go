package bigint

import "testing"

func TestAddSub(t *testing.T) {
	a := FromInt64(7)
	b := FromInt64(-3)
	sum := Zero().Add(a, b)
	if sum.String() != "4" {
		t.Fatalf("Add(7,-3) = %s, want 4", sum.String())
	}
	diff := Zero().Sub(a, b)
	if diff.String() != "10" {
		t.Fatalf("Sub(7,-3) = %s, want 10", diff.String())
	}
}

func TestQuoRemTrunc(t *testing.T) {
	cases := []struct {
		a, b   int64
		q, r   int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
	}
	for _, c := range cases {
		q, r := QuoRemTrunc(FromInt64(c.a), FromInt64(c.b))
		if q.Cmp(FromInt64(c.q)) != 0 || r.Cmp(FromInt64(c.r)) != 0 {
			t.Errorf("QuoRemTrunc(%d,%d) = (%s,%s), want (%d,%d)", c.a, c.b, q, r, c.q, c.r)
		}
	}
}

func TestPowUint64(t *testing.T) {
	got := Zero().PowUint64(10, 5)
	if got.String() != "100000" {
		t.Fatalf("10^5 = %s, want 100000", got.String())
	}
	got0 := Zero().PowUint64(10, 0)
	if got0.String() != "1" {
		t.Fatalf("10^0 = %s, want 1", got0.String())
	}
}

func TestUint64RoundTrip(t *testing.T) {
	n := FromUint64(123456789)
	v, ok := n.Uint64()
	if !ok || v != 123456789 {
		t.Fatalf("Uint64() = (%d,%v), want (123456789,true)", v, ok)
	}
	if _, ok := FromInt64(-1).Uint64(); ok {
		t.Fatalf("Uint64() on negative should not be ok")
	}
}

func TestLowByte(t *testing.T) {
	cases := []struct {
		v    int64
		want byte
	}{
		{99, 99},
		{256, 0},
		{257, 1},
		{-1, 255},
		{-157, 99},
	}
	for _, c := range cases {
		got := FromInt64(c.v).LowByte()
		if got != c.want {
			t.Errorf("LowByte(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestBitLenAndShr(t *testing.T) {
	n := FromUint64(1024) // 2^10
	if n.BitLen() != 11 {
		t.Fatalf("BitLen(1024) = %d, want 11", n.BitLen())
	}
	shifted := Zero().Shr(n, 5)
	if shifted.String() != "32" {
		t.Fatalf("1024>>5 = %s, want 32", shifted.String())
	}
}
