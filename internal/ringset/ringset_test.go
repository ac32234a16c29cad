package ringset

import "testing"

func TestCapacityClamp(t *testing.T) {
	s := New(3)
	for i, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		s.Add(v)
		if !s.Contains(v) {
			t.Fatalf("entry %d (%q) missing right after Add", i, v)
		}
	}
	// Ten entries fit because the capacity clamps up to ten.
	if !s.Contains("a") {
		t.Fatal("oldest entry evicted before capacity was reached")
	}
	s.Add("k")
	if s.Contains("a") {
		t.Fatal("expected oldest entry to be overwritten")
	}
	if !s.Contains("b") || !s.Contains("k") {
		t.Fatal("newer entries should survive the overwrite")
	}
}

func TestContainsSkipsHoles(t *testing.T) {
	s := New(10)
	if s.Contains("") {
		t.Fatal("empty value must never match unfilled slots")
	}
	s.Add("x")
	if !s.Contains("x") {
		t.Fatal("expected recorded value to match")
	}
	if s.Contains("y") {
		t.Fatal("unexpected match for value never recorded")
	}
}

func TestOverwriteOrderIsFIFO(t *testing.T) {
	s := New(10)
	for i := 0; i < 10; i++ {
		s.Add(string(rune('a' + i)))
	}
	s.Add("z")
	if s.Contains("a") {
		t.Fatal("first entry should be the one overwritten")
	}
	for i := 1; i < 10; i++ {
		if !s.Contains(string(rune('a' + i))) {
			t.Fatalf("entry %q unexpectedly gone", string(rune('a'+i)))
		}
	}
}
