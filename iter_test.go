package oaf

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNamedArchive(t *testing.T, names ...string) *Archive {
	t.Helper()
	b := NewBuilder()
	for _, n := range names {
		require.NoError(t, b.PushEntry(SignatureFile, n, nil, []byte(n)))
	}
	buf, err := b.Finish()
	require.NoError(t, err)
	a, err := FromBytes(buf)
	require.NoError(t, err)
	return a
}

func TestIteratorForwardBackwardAreReverses(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d", "e"}
	a := buildNamedArchive(t, names...)

	var forward []string
	for it := a.Iter(); ; {
		e, ok := it.Next()
		if !ok {
			break
		}
		forward = append(forward, e.Name())
	}

	var backward []string
	for it := a.Iter(); ; {
		e, ok := it.NextBack()
		if !ok {
			break
		}
		backward = append(backward, e.Name())
	}

	assert.Equal(t, names, forward)
	slices.Reverse(backward)
	assert.Equal(t, forward, backward)
}

func TestIteratorLenTracksRemaining(t *testing.T) {
	t.Parallel()

	a := buildNamedArchive(t, "a", "b", "c", "d")
	it := a.Iter()
	assert.Equal(t, 4, it.Len())

	_, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 3, it.Len())

	_, ok = it.NextBack()
	require.True(t, ok)
	assert.Equal(t, 2, it.Len())

	_, ok = it.Next()
	require.True(t, ok)
	_, ok = it.NextBack()
	require.True(t, ok)
	assert.Equal(t, 0, it.Len())

	_, ok = it.Next()
	assert.False(t, ok)
	_, ok = it.NextBack()
	assert.False(t, ok)
	assert.Equal(t, 0, it.Len())
}

func TestIteratorBothEndsMeetInMiddle(t *testing.T) {
	t.Parallel()

	a := buildNamedArchive(t, "a", "b", "c")
	it := a.Iter()

	front, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "a", front.Name())

	back, ok := it.NextBack()
	require.True(t, ok)
	assert.Equal(t, "c", back.Name())

	mid, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "b", mid.Name())

	// The window is exhausted; neither end yields "b" twice.
	_, ok = it.Next()
	assert.False(t, ok)
	_, ok = it.NextBack()
	assert.False(t, ok)
}

func TestEntriesSeq(t *testing.T) {
	t.Parallel()

	a := buildNamedArchive(t, "x", "y", "z")

	var got []string
	for e := range a.Entries() {
		got = append(got, e.Name())
	}
	assert.Equal(t, []string{"x", "y", "z"}, got)

	got = got[:0]
	for e := range a.EntriesBack() {
		got = append(got, e.Name())
	}
	assert.Equal(t, []string{"z", "y", "x"}, got)

	// Early break must not panic or over-consume.
	count := 0
	for range a.Entries() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
