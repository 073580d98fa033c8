package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrItemIndex is returned when a row index does not exist in the list.
var ErrItemIndex = errors.New("line item index out of range")

// LineItem is one priced entry of a proforma.
type LineItem struct {
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Total returns Quantity × UnitPrice.
func (li LineItem) Total() decimal.Decimal {
	return CalcLineTotal(li.UnitPrice, li.Quantity)
}

// Mode tells whether the item inputs add a new row or replace an existing one.
// The zero value is Adding.
type Mode struct {
	editing bool
	index   int
}

// Adding returns the mode in which a submitted item is appended.
func Adding() Mode { return Mode{} }

// EditingAt returns the mode in which a submitted item replaces row i.
func EditingAt(i int) Mode { return Mode{editing: true, index: i} }

// Editing reports the row being edited, if any.
func (m Mode) Editing() (int, bool) {
	return m.index, m.editing
}

func (m Mode) String() string {
	if m.editing {
		return fmt.Sprintf("EditingAt(%d)", m.index)
	}
	return "Adding"
}

// LineItems is the ordered, in-memory item list of the proforma editor
// together with its add/edit mode. It is not safe for concurrent use.
type LineItems struct {
	items []LineItem
	mode  Mode
}

// NewLineItems returns a list holding a copy of items, in Adding mode.
func NewLineItems(items []LineItem) *LineItems {
	l := &LineItems{}
	l.Reset(items)
	return l
}

// Reset replaces the whole list and returns to Adding mode.
func (l *LineItems) Reset(items []LineItem) {
	l.items = append([]LineItem(nil), items...)
	l.mode = Adding()
}

// Items returns a copy of the current rows.
func (l *LineItems) Items() []LineItem {
	return append([]LineItem(nil), l.items...)
}

func (l *LineItems) Len() int { return len(l.items) }

func (l *LineItems) Mode() Mode { return l.mode }

// Total is the grand total over the current rows.
func (l *LineItems) Total() decimal.Decimal {
	return CalcGrandTotal(l.items)
}

// Submit stores item: in EditingAt(i) it replaces row i and switches back to
// Adding, otherwise it is appended to the end.
func (l *LineItems) Submit(item LineItem) {
	if i, ok := l.mode.Editing(); ok && i < len(l.items) {
		l.items[i] = item
		l.mode = Adding()
		return
	}
	l.items = append(l.items, item)
	l.mode = Adding()
}

// BeginEdit switches to EditingAt(i) and returns the row so it can be loaded
// back into the inputs.
func (l *LineItems) BeginEdit(i int) (LineItem, error) {
	if i < 0 || i >= len(l.items) {
		return LineItem{}, fmt.Errorf("edit row %d of %d: %w", i, len(l.items), ErrItemIndex)
	}
	l.mode = EditingAt(i)
	return l.items[i], nil
}

// CancelEdit returns to Adding without touching the rows.
func (l *LineItems) CancelEdit() {
	l.mode = Adding()
}

// Remove deletes row i keeping the relative order of the others. If row i was
// being edited the list returns to Adding; if an earlier row is removed the
// edited index follows its row.
func (l *LineItems) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("remove row %d of %d: %w", i, len(l.items), ErrItemIndex)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)

	if edited, ok := l.mode.Editing(); ok {
		switch {
		case edited == i:
			l.mode = Adding()
		case edited > i:
			l.mode = EditingAt(edited - 1)
		}
	}
	return nil
}
