package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
)

func product(id int, price float64) catalog.Product {
	return catalog.Product{ID: id, Source: catalog.SourceRemote, Title: "p", Price: price}
}

func localProduct(id int, price float64) catalog.Product {
	return catalog.Product{ID: id, Source: catalog.SourceLocal, Title: "local", Price: price}
}

func TestLedgerAddMergesLines(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 20))
	l.Add(product(2, 5))
	l.Add(product(1, 20))

	require.Equal(t, 2, l.Len())
	line, ok := l.Line(catalog.RemoteRef(1))
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 1, l.Lines()[0].Product.ID, "insertion order kept")
	assert.Equal(t, 3, l.ItemCount())
}

func TestLedgerSameIDDifferentSource(t *testing.T) {
	l := NewLedger()
	l.Add(product(1000, 1))
	l.Add(localProduct(1000, 2))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 3.0, l.Total())
}

func TestLedgerQuantityScenario(t *testing.T) {
	l := NewLedger()
	ref := catalog.RemoteRef(7)
	l.Add(product(7, 20))
	assert.Equal(t, 20.0, l.Total())

	require.True(t, l.SetQuantity(ref, 3))
	assert.Equal(t, 60.0, l.Total())

	require.True(t, l.SetQuantity(ref, 0))
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0.0, l.Total())

	assert.False(t, l.SetQuantity(ref, 2), "unknown lines are not created")
	assert.Equal(t, 0, l.Len())
}

func TestLedgerIncrementDecrement(t *testing.T) {
	l := NewLedger()
	ref := catalog.RemoteRef(3)
	l.Add(product(3, 1.5))

	require.True(t, l.Increment(ref))
	require.True(t, l.Increment(ref))
	line, _ := l.Line(ref)
	assert.Equal(t, 3, line.Quantity)

	require.True(t, l.Decrement(ref))
	require.True(t, l.Decrement(ref))
	line, _ = l.Line(ref)
	assert.Equal(t, 1, line.Quantity)

	require.True(t, l.Decrement(ref))
	assert.Equal(t, 0, l.Len(), "decrementing the last unit removes the line")

	assert.False(t, l.Increment(ref))
	assert.False(t, l.Decrement(ref))
}

func TestLedgerRemoveAndClear(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 1))
	l.Add(product(2, 2))
	l.Add(product(3, 3))

	assert.True(t, l.Remove(catalog.RemoteRef(2)))
	assert.False(t, l.Remove(catalog.RemoteRef(2)))
	assert.Equal(t, []int{1, 3}, []int{l.Lines()[0].Product.ID, l.Lines()[1].Product.ID})

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.NotNil(t, l.Lines())
	assert.Equal(t, 0, l.ItemCount())
}

func TestLedgerRefresh(t *testing.T) {
	l := NewLedger()
	l.Add(localProduct(1000, 10))
	l.Add(localProduct(1000, 10))

	edited := localProduct(1000, 12.5)
	edited.Title = "renamed"
	require.True(t, l.Refresh(edited))

	line, _ := l.Line(catalog.LocalRef(1000))
	assert.Equal(t, "renamed", line.Product.Title)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 25.0, l.Total())

	assert.False(t, l.Refresh(localProduct(1001, 1)))
}

func TestLedgerLinesIsACopy(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 1))
	lines := l.Lines()
	lines[0].Quantity = 99
	line, _ := l.Line(catalog.RemoteRef(1))
	assert.Equal(t, 1, line.Quantity)
}

func TestLedgerTotalRounds(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 0.1))
	l.Add(product(2, 0.2))
	assert.Equal(t, 0.3, l.Total())
}

func TestLedgerSnapshotRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 109.95))
	l.Add(localProduct(1000, 3))
	l.SetQuantity(catalog.LocalRef(1000), 4)

	restored := NewLedger()
	restored.Restore(l.Snapshot())
	if diff := cmp.Diff(l.Lines(), restored.Lines()); diff != "" {
		t.Errorf("restored ledger mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, l.Total(), restored.Total())
}

func TestLedgerUntaggedProductRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Add(catalog.Product{ID: 7, Title: "untagged", Price: 2})
	l.Add(catalog.Product{ID: 7, Title: "untagged", Price: 2})

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, catalog.SourceRemote, lines[0].Product.Source)

	restored := NewLedger()
	restored.Restore(l.Snapshot())
	if diff := cmp.Diff(l.Lines(), restored.Lines()); diff != "" {
		t.Errorf("restored ledger mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, l.Refresh(catalog.Product{ID: 7, Title: "renamed", Price: 3}))
	line, _ := l.Line(catalog.RemoteRef(7))
	assert.Equal(t, catalog.SourceRemote, line.Product.Source)
}

func TestLedgerRestoreSanitizes(t *testing.T) {
	untagged := product(5, 2)
	untagged.Source = ""

	l := NewLedger()
	l.Add(product(9, 1))
	l.Restore(Snapshot{Items: []Line{
		{Product: product(1, 1), Quantity: 2},
		{Product: product(2, 1), Quantity: 0},
		{Product: product(1, 1), Quantity: 3},
		{Product: untagged, Quantity: 1},
	}})

	require.Equal(t, 2, l.Len())
	line, _ := l.Line(catalog.RemoteRef(1))
	assert.Equal(t, 5, line.Quantity)
	_, ok := l.Line(catalog.RemoteRef(5))
	assert.True(t, ok, "untagged products are remote")
	_, ok = l.Line(catalog.RemoteRef(9))
	assert.False(t, ok, "restore replaces previous lines")
}

func TestShipping(t *testing.T) {
	assert.Equal(t, 9.99, Shipping(80))
	assert.Equal(t, 9.99, Shipping(100))
	assert.Equal(t, 0.0, Shipping(100.01))
	assert.Equal(t, 0.0, Shipping(120))
	assert.Equal(t, 9.99, Shipping(0))
}

func TestSummarize(t *testing.T) {
	l := NewLedger()
	l.Add(product(1, 40))
	l.SetQuantity(catalog.RemoteRef(1), 2)

	assert.Equal(t, Summary{Subtotal: 80, Shipping: 9.99, GrandTotal: 89.99, ItemCount: 2}, Summarize(l))

	l.Add(product(2, 40))
	assert.Equal(t, Summary{Subtotal: 120, Shipping: 0, GrandTotal: 120, ItemCount: 3}, Summarize(l))
}
