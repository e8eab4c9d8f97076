package book

import (
	"testing"

	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

func order(id string, amount string) *common.Order {
	return &common.Order{
		ID:     id,
		Amount: decimal.MustParse(amount),
		Status: common.Pending,
	}
}

func TestLevelAppendAndAmount(t *testing.T) {
	l := &Level{}
	l.Append(order("a", "1.0"))
	l.Append(order("b", "2.5"))

	if got := l.Amount().String(); got != "3.5" {
		t.Errorf("Amount() = %s, want 3.5", got)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLevelFIFOHeadPop(t *testing.T) {
	l := &Level{}
	l.Append(order("a", "1"))
	l.Append(order("b", "1"))

	head, ok := l.Head()
	if !ok || head.ID != "a" {
		t.Fatalf("Head() = %+v, want a", head)
	}

	popped, ok := l.PopHead()
	if !ok || popped.ID != "a" {
		t.Fatalf("PopHead() = %+v, want a", popped)
	}
	head, ok = l.Head()
	if !ok || head.ID != "b" {
		t.Fatalf("Head() after pop = %+v, want b", head)
	}
}

func TestLevelRemoveByID(t *testing.T) {
	l := &Level{}
	l.Append(order("a", "1"))
	l.Append(order("b", "2"))
	l.Append(order("c", "3"))

	removed, ok := l.RemoveByID("b")
	if !ok || removed.ID != "b" {
		t.Fatalf("RemoveByID(b) = %+v, %v", removed, ok)
	}
	if got := l.Amount().String(); got != "4" {
		t.Errorf("Amount() after remove = %s, want 4", got)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if _, ok := l.RemoveByID("missing"); ok {
		t.Error("RemoveByID(missing) should report false")
	}
}

func TestLevelApplyFillPartial(t *testing.T) {
	l := &Level{}
	l.Append(order("a", "5"))

	removed, completed := l.ApplyFill(decimal.MustParse("2"))
	if completed || removed != nil {
		t.Fatalf("ApplyFill(2) completed = %v, removed = %v, want false/nil", completed, removed)
	}
	head, _ := l.Head()
	if head.Status != common.Partial {
		t.Errorf("status = %v, want partial", head.Status)
	}
	if head.FilledAmount.String() != "2" {
		t.Errorf("filled = %s, want 2", head.FilledAmount.String())
	}
	if got := l.Amount().String(); got != "3" {
		t.Errorf("level amount = %s, want 3", got)
	}
}

func TestLevelApplyFillCompletes(t *testing.T) {
	l := &Level{}
	l.Append(order("a", "5"))

	removed, completed := l.ApplyFill(decimal.MustParse("5"))
	if !completed || removed == nil || removed.ID != "a" {
		t.Fatalf("ApplyFill(5) completed = %v, removed = %v", completed, removed)
	}
	if removed.Status != common.Filled {
		t.Errorf("status = %v, want filled", removed.Status)
	}
	if !l.Empty() {
		t.Error("level should be empty after full fill of its only order")
	}
}
