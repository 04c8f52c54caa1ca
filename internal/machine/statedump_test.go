package machine

import (
	"strings"
	"testing"

	"dcvm/internal/number"
	"dcvm/internal/value"
)

func TestDumpLoadStateRoundTrip(t *testing.T) {
	m := New(true)
	m.IBase = 16
	m.OBase = 2
	m.Scale = 4
	m.Stack.Push(value.NumberValue(number.FromInt64(-42)))
	m.Stack.Push(value.StringValue("hi"))
	m.Register(uint64('a')).Push(value.NumberValue(number.FromInt64(7)))

	doc, err := m.DumpState()
	if err != nil {
		t.Fatalf("DumpState() error = %v", err)
	}

	loaded := New(false)
	if err := loaded.LoadState(doc); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if loaded.IBase != 16 || loaded.OBase != 2 || loaded.Scale != 4 || !loaded.ExtendedRegs {
		t.Fatalf("loaded bases = (%d,%d,%d,%v), want (16,2,4,true)",
			loaded.IBase, loaded.OBase, loaded.Scale, loaded.ExtendedRegs)
	}

	top, ok := loaded.Stack.Pop()
	if !ok || !top.IsString() || top.Str != "hi" {
		t.Fatalf("top of loaded stack = %v, want string \"hi\"", top)
	}
	next, ok := loaded.Stack.Pop()
	if !ok || !next.IsNumber() || next.Number.N.String() != "-42" {
		t.Fatalf("second value of loaded stack = %v, want -42", next)
	}

	regTop, ok := loaded.Register(uint64('a')).Top()
	if !ok || !regTop.IsNumber() || regTop.Number.N.String() != "7" {
		t.Fatalf("loaded register a top = %v, want 7", regTop)
	}
}

func TestLoadStateRejectsInvalidJSON(t *testing.T) {
	m := New(false)
	if err := m.LoadState("not json"); err == nil {
		t.Fatal("LoadState() on invalid JSON should return an error")
	}
}

func TestDumpStateOmitsMacroStack(t *testing.T) {
	m := New(false)
	doc, err := m.DumpState()
	if err != nil {
		t.Fatalf("DumpState() error = %v", err)
	}
	if strings.Contains(doc, "macro") {
		t.Fatalf("dump should not mention the macro-execution stack, got %q", doc)
	}
}
