package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgression_Basics(t *testing.T) {
	p := NewProgression("transcript", "a", "b")
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Contains("a"))
	assert.Equal(t, 1, p.Index("b"))
	assert.Equal(t, -1, p.Index("missing"))

	p.Append("c", "c")
	assert.Equal(t, 4, p.Len())

	p.Include("c") // already present, no-op
	assert.Equal(t, 4, p.Len())

	p.Exclude("c")
	assert.Equal(t, []string{"a", "b"}, p.Order)
}

func TestProgression_InsertAndPop(t *testing.T) {
	p := NewProgression("", "a", "c")

	require.NoError(t, p.Insert(1, "b"))
	assert.Equal(t, []string{"a", "b", "c"}, p.Order)
	assert.ErrorIs(t, p.Insert(9, "x"), ErrIndexOutOfRange)

	first, err := p.PopLeft()
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	last, err := p.Pop()
	require.NoError(t, err)
	assert.Equal(t, "c", last)

	id, err := p.At(0)
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	middle, err := p.Pop()
	require.NoError(t, err)
	assert.Equal(t, "b", middle)

	_, err = p.Pop()
	assert.ErrorIs(t, err, ErrEmptyPile)
}

func TestProgression_CopyAndEqual(t *testing.T) {
	p := NewProgression("x", "a", "b")
	q := p.Copy()

	assert.True(t, p.Equal(q))

	q.Append("c")
	assert.False(t, p.Equal(q))
	assert.Equal(t, 2, p.Len(), "copy must not share backing storage")

	other := NewProgression("y", "a", "b")
	other.Extend(NewProgression("", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, other.Order)

	assert.False(t, p.Equal(nil))
}
