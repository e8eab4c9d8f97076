package pricemap

import (
	"testing"

	"fenrir/internal/decimal"
)

func d(s string) decimal.Decimal { return decimal.MustParse(s) }

func TestAscendingOrder(t *testing.T) {
	m := NewAscending[string]()
	m.Insert(d("101"), "c")
	m.Insert(d("99"), "a")
	m.Insert(d("100"), "b")

	first, ok := m.First()
	if !ok || first.Value != "a" {
		t.Fatalf("First() = %+v, want price 99", first)
	}
	last, ok := m.Last()
	if !ok || last.Value != "c" {
		t.Fatalf("Last() = %+v, want price 101", last)
	}

	var order []string
	m.IterForward(func(e Entry[string]) bool {
		order = append(order, e.Value)
		return true
	})
	if want := []string{"a", "b", "c"}; !equal(order, want) {
		t.Errorf("IterForward order = %v, want %v", order, want)
	}
}

func TestDescendingOrder(t *testing.T) {
	m := NewDescending[string]()
	m.Insert(d("99"), "low")
	m.Insert(d("101"), "high")
	m.Insert(d("100"), "mid")

	first, ok := m.First()
	if !ok || first.Value != "high" {
		t.Fatalf("First() = %+v, want price 101", first)
	}

	var order []string
	m.IterForward(func(e Entry[string]) bool {
		order = append(order, e.Value)
		return true
	})
	if want := []string{"high", "mid", "low"}; !equal(order, want) {
		t.Errorf("IterForward order = %v, want %v", order, want)
	}
}

func TestRemoveAndFind(t *testing.T) {
	m := NewAscending[int]()
	m.Insert(d("1"), 10)
	m.Insert(d("2"), 20)

	if v, ok := m.Find(d("1")); !ok || v != 10 {
		t.Fatalf("Find(1) = %v, %v", v, ok)
	}

	v, ok := m.Remove(d("1"))
	if !ok || v != 10 {
		t.Fatalf("Remove(1) = %v, %v", v, ok)
	}
	if _, ok := m.Find(d("1")); ok {
		t.Error("expected price 1 to be gone after Remove")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestEmptyMap(t *testing.T) {
	m := NewAscending[int]()
	if _, ok := m.First(); ok {
		t.Error("First() on empty map should report !ok")
	}
	if _, ok := m.Last(); ok {
		t.Error("Last() on empty map should report !ok")
	}
	if m.Len() != 0 {
		t.Error("Len() on empty map should be 0")
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
