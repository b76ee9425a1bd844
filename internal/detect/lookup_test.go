package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBy_PreservesBucketOrder(t *testing.T) {
	words := []string{"apple", "banana", "avocado", "blueberry", "cherry"}
	l := GroupBy(words, func(w string) byte { return w[0] })

	assert.Equal(t, 3, l.Len())

	a, ok := l.Take('a')
	require.True(t, ok)
	assert.Equal(t, []string{"apple", "avocado"}, a)

	b, ok := l.Take('b')
	require.True(t, ok)
	assert.Equal(t, []string{"banana", "blueberry"}, b)
}

func TestLookup_TakeRemoves(t *testing.T) {
	l := GroupBy([]string{"x1", "x2"}, func(s string) string { return s[:1] })

	first, ok := l.Take("x")
	require.True(t, ok)
	assert.Len(t, first, 2)
	assert.Equal(t, 0, l.Len())

	second, ok := l.Take("x")
	assert.False(t, ok)
	assert.Nil(t, second)
}

func TestLookup_AllSkipsTakenBuckets(t *testing.T) {
	l := GroupBy([]string{"Go", "gopher", "Rust", "rustacean"}, strings.ToLower)
	_, _ = l.Take("go")

	var keys []string
	for k := range l.All() {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"gopher", "rust", "rustacean"}, keys)
}

func TestGroupBy_Empty(t *testing.T) {
	l := GroupBy([]int(nil), func(i int) int { return i })
	assert.Equal(t, 0, l.Len())
	_, ok := l.Take(0)
	assert.False(t, ok)
}
