package cart

import "github.com/georgemunganga/shophub/internal/modules/catalog"

// Ledger is an insertion-ordered list of cart lines, at most one per product.
// It is not safe for concurrent use.
type Ledger struct {
	lines []Line
}

func NewLedger() *Ledger { return &Ledger{} }

func (l *Ledger) index(ref catalog.Ref) int {
	for i, line := range l.lines {
		if line.Product.Ref() == ref {
			return i
		}
	}
	return -1
}

// withSource tags an untagged product as remote.
func withSource(p catalog.Product) catalog.Product {
	if p.Source == "" {
		p.Source = catalog.SourceRemote
	}
	return p
}

// Add puts one more unit of p in the cart.
func (l *Ledger) Add(p catalog.Product) {
	p = withSource(p)
	if i := l.index(p.Ref()); i >= 0 {
		l.lines[i].Quantity++
		return
	}
	l.lines = append(l.lines, Line{Product: p, Quantity: 1})
}

// SetQuantity sets the quantity of an existing line. A quantity below 1
// removes the line. It reports whether a line for ref existed.
func (l *Ledger) SetQuantity(ref catalog.Ref, quantity int) bool {
	i := l.index(ref)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		l.removeAt(i)
		return true
	}
	l.lines[i].Quantity = quantity
	return true
}

func (l *Ledger) Increment(ref catalog.Ref) bool {
	line, ok := l.Line(ref)
	if !ok {
		return false
	}
	return l.SetQuantity(ref, line.Quantity+1)
}

// Decrement takes one unit away; the last unit removes the line.
func (l *Ledger) Decrement(ref catalog.Ref) bool {
	line, ok := l.Line(ref)
	if !ok {
		return false
	}
	if line.Quantity <= 1 {
		return l.Remove(ref)
	}
	return l.SetQuantity(ref, line.Quantity-1)
}

func (l *Ledger) Remove(ref catalog.Ref) bool {
	i := l.index(ref)
	if i < 0 {
		return false
	}
	l.removeAt(i)
	return true
}

func (l *Ledger) removeAt(i int) {
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
}

// Refresh replaces the product data of an existing line, keeping its quantity.
func (l *Ledger) Refresh(p catalog.Product) bool {
	p = withSource(p)
	i := l.index(p.Ref())
	if i < 0 {
		return false
	}
	l.lines[i].Product = p
	return true
}

func (l *Ledger) Clear() { l.lines = nil }

func (l *Ledger) Line(ref catalog.Ref) (Line, bool) {
	if i := l.index(ref); i >= 0 {
		return l.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	return append([]Line{}, l.lines...)
}

func (l *Ledger) Len() int { return len(l.lines) }

// Total is the sum of price times quantity over all lines.
func (l *Ledger) Total() float64 {
	var total float64
	for _, line := range l.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return round2(total)
}

// ItemCount is the number of units, not the number of lines.
func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Items: l.Lines()}
}

// Restore replaces the ledger with s. Lines with a non-positive quantity are
// dropped and duplicate products are folded into their first line.
func (l *Ledger) Restore(s Snapshot) {
	l.lines = nil
	for _, line := range s.Items {
		if line.Quantity < 1 {
			continue
		}
		line.Product = withSource(line.Product)
		if i := l.index(line.Product.Ref()); i >= 0 {
			l.lines[i].Quantity += line.Quantity
			continue
		}
		l.lines = append(l.lines, line)
	}
}
