package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func item(desc, price string, qty int) LineItem {
	return LineItem{Description: desc, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func descriptions(l *LineItems) []string {
	var out []string
	for _, it := range l.Items() {
		out = append(out, it.Description)
	}
	return out
}

func assertDescriptions(t *testing.T, l *LineItems, want ...string) {
	t.Helper()
	got := descriptions(l)
	if len(got) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rows %v, got %v", want, got)
		}
	}
}

func TestLineItems_SubmitAppendsInAddingMode(t *testing.T) {
	l := NewLineItems(nil)
	l.Submit(item("Widget", "10.50", 3))
	l.Submit(item("Gadget", "5", 2))

	assertDescriptions(t, l, "Widget", "Gadget")
	if FormatSoles(l.Total()) != "S/ 41.50" {
		t.Errorf("expected S/ 41.50, got %s", FormatSoles(l.Total()))
	}
	if _, editing := l.Mode().Editing(); editing {
		t.Error("expected Adding mode after submit")
	}
}

func TestLineItems_EditReplacesInPlace(t *testing.T) {
	l := NewLineItems([]LineItem{item("A", "1", 1), item("B", "2", 2), item("C", "3", 3)})

	got, err := l.BeginEdit(1)
	if err != nil {
		t.Fatalf("BeginEdit(1) error = %v", err)
	}
	if got.Description != "B" {
		t.Errorf("expected row B to be loaded, got %q", got.Description)
	}
	if l.Mode() != EditingAt(1) {
		t.Errorf("expected EditingAt(1), got %s", l.Mode())
	}

	l.Submit(item("B2", "20", 2))

	assertDescriptions(t, l, "A", "B2", "C")
	if l.Mode() != Adding() {
		t.Errorf("expected Adding after replacing, got %s", l.Mode())
	}
}

func TestLineItems_EditIndexZero(t *testing.T) {
	l := NewLineItems([]LineItem{item("A", "1", 1), item("B", "2", 2)})
	if _, err := l.BeginEdit(0); err != nil {
		t.Fatalf("BeginEdit(0) error = %v", err)
	}
	l.Submit(item("A2", "1", 1))
	assertDescriptions(t, l, "A2", "B")
}

func TestLineItems_BeginEditOutOfRange(t *testing.T) {
	l := NewLineItems([]LineItem{item("A", "1", 1)})
	for _, i := range []int{-1, 1, 5} {
		if _, err := l.BeginEdit(i); !errors.Is(err, ErrItemIndex) {
			t.Errorf("BeginEdit(%d) error = %v, want ErrItemIndex", i, err)
		}
	}
	if l.Mode() != Adding() {
		t.Errorf("failed edit must not change mode, got %s", l.Mode())
	}
}

func TestLineItems_Remove(t *testing.T) {
	tests := []struct {
		name     string
		editing  int
		remove   int
		wantRows []string
		wantMode Mode
	}{
		{"remove while adding", -1, 1, []string{"A", "C", "D"}, Adding()},
		{"remove edited row", 2, 2, []string{"A", "B", "D"}, Adding()},
		{"remove before edited row", 2, 0, []string{"B", "C", "D"}, EditingAt(1)},
		{"remove after edited row", 1, 3, []string{"A", "B", "C"}, EditingAt(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLineItems([]LineItem{item("A", "1", 1), item("B", "1", 1), item("C", "1", 1), item("D", "1", 1)})
			if tt.editing >= 0 {
				if _, err := l.BeginEdit(tt.editing); err != nil {
					t.Fatalf("BeginEdit error = %v", err)
				}
			}
			if err := l.Remove(tt.remove); err != nil {
				t.Fatalf("Remove(%d) error = %v", tt.remove, err)
			}
			assertDescriptions(t, l, tt.wantRows...)
			if l.Mode() != tt.wantMode {
				t.Errorf("expected mode %s, got %s", tt.wantMode, l.Mode())
			}
		})
	}
}

func TestLineItems_RemoveOutOfRange(t *testing.T) {
	l := NewLineItems([]LineItem{item("A", "1", 1)})
	if err := l.Remove(3); !errors.Is(err, ErrItemIndex) {
		t.Errorf("Remove(3) error = %v, want ErrItemIndex", err)
	}
	assertDescriptions(t, l, "A")
}

func TestLineItems_TotalTracksEverySequence(t *testing.T) {
	l := NewLineItems(nil)
	l.Submit(item("A", "0.10", 3))
	l.Submit(item("B", "19.99", 1))
	l.Submit(item("C", "2.5", 4))
	if _, err := l.BeginEdit(1); err != nil {
		t.Fatal(err)
	}
	l.Submit(item("B", "20", 2))
	if err := l.Remove(0); err != nil {
		t.Fatal(err)
	}

	want := decimal.Zero
	for _, it := range l.Items() {
		want = want.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !l.Total().Equal(want) {
		t.Errorf("Total() = %s, want %s", l.Total(), want)
	}
	if FormatSoles(l.Total()) != "S/ 50.00" {
		t.Errorf("expected S/ 50.00, got %s", FormatSoles(l.Total()))
	}
}

func TestLineItems_ItemsReturnsCopy(t *testing.T) {
	l := NewLineItems([]LineItem{item("A", "1", 1)})
	rows := l.Items()
	rows[0].Description = "mutated"
	assertDescriptions(t, l, "A")
}
