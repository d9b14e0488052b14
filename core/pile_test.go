package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Element
	Value string
}

func newTestItem(value string) *testItem {
	return &testItem{Element: NewElement(), Value: value}
}

func TestPile_IncludeAndOrder(t *testing.T) {
	a, b, c := newTestItem("a"), newTestItem("b"), newTestItem("c")

	p := NewPile(a, b, c)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, p.Keys())

	// Including an existing item is a no-op.
	p.Include(b)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, p.Keys())
}

func TestPile_AppendDuplicate(t *testing.T) {
	a := newTestItem("a")
	p := NewPile(a)

	err := p.Append(a)
	var exists *ItemExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, a.ID, exists.ID)
}

func TestPile_GetAndAt(t *testing.T) {
	a, b := newTestItem("a"), newTestItem("b")
	p := NewPile(a, b)

	got, err := p.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Value)

	got, err = p.At(0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Value)

	_, err = p.Get("missing")
	var notFound *ItemNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = p.At(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPile_PopAndExclude(t *testing.T) {
	a, b, c := newTestItem("a"), newTestItem("b"), newTestItem("c")
	p := NewPile(a, b, c)

	first, err := p.PopLeft()
	require.NoError(t, err)
	assert.Equal(t, a.ID, first.ID)

	assert.True(t, p.Exclude(b.ID))
	// Excluding an absent ID still reports the pile no longer contains it.
	assert.True(t, p.Exclude("missing"))

	assert.Equal(t, []string{c.ID}, p.Keys())

	_, err = p.Pop(c.ID)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	_, err = p.PopLeft()
	assert.ErrorIs(t, err, ErrEmptyPile)
}

func TestPile_Insert(t *testing.T) {
	a, c := newTestItem("a"), newTestItem("c")
	p := NewPile(a, c)

	b := newTestItem("b")
	require.NoError(t, p.Insert(1, b))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, p.Keys())

	assert.ErrorIs(t, p.Insert(10, newTestItem("x")), ErrIndexOutOfRange)
	var exists *ItemExistsError
	assert.ErrorAs(t, p.Insert(0, b), &exists)
}

func TestPile_UpdateKeepsPosition(t *testing.T) {
	a, b := newTestItem("a"), newTestItem("b")
	p := NewPile(a, b)

	replacement := &testItem{Element: a.Element, Value: "a2"}
	p.Update(replacement)

	assert.Equal(t, []string{a.ID, b.ID}, p.Keys())
	got, err := p.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Value)
}

func TestPile_Merge(t *testing.T) {
	a, b := newTestItem("a"), newTestItem("b")
	p := NewPile(a)
	q := NewPile(a, b)

	p.Merge(q)
	assert.Equal(t, []string{a.ID, b.ID}, p.Keys())
}

func TestPile_ConcurrentIncludeExclude(t *testing.T) {
	p := NewPile[*testItem]()

	var wg sync.WaitGroup
	items := make([]*testItem, 100)
	for i := range items {
		items[i] = newTestItem(fmt.Sprintf("item-%d", i))
	}

	for _, item := range items {
		wg.Add(1)
		go func(it *testItem) {
			defer wg.Done()
			p.Include(it)
		}(item)
	}
	wg.Wait()
	assert.Equal(t, len(items), p.Len())

	// Order and map must agree after concurrent churn.
	for _, item := range items[:50] {
		wg.Add(1)
		go func(it *testItem) {
			defer wg.Done()
			p.Exclude(it.ID)
		}(item)
	}
	wg.Wait()
	assert.Equal(t, 50, p.Len())
	assert.Len(t, p.Keys(), len(p.Values()))
}

func TestEvent_Lifecycle(t *testing.T) {
	ev := NewEvent()
	assert.Equal(t, StatusPending, ev.Status())

	ev.SetStatus(StatusProcessing)
	assert.Equal(t, StatusProcessing, ev.Status())

	ev.MarkCompleted("ok", 10)
	assert.Equal(t, StatusCompleted, ev.Status())
	assert.Equal(t, "ok", ev.Execution().Response)

	ev2 := NewEvent()
	ev2.MarkFailed(errors.New("boom"), 5)
	assert.Equal(t, StatusFailed, ev2.Status())
	assert.Equal(t, "boom", ev2.Execution().Error)
}
