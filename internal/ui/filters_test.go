package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcat(t *testing.T) {
	assert.Equal(t, "accordion-1", Concat("accordion-", 1))
	assert.Equal(t, "ab", Concat("a", "b"))
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Split("a,b,c", ","))
	assert.Equal(t, []string{"abc"}, Split("abc", ","))
}

func TestReplace(t *testing.T) {
	out, err := Replace("hello world", " ,-")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", out)

	for _, arg := range []string{"", "a", "a,b,c"} {
		_, err := Replace("x", arg)
		assert.Error(t, err, arg)
	}
}

func TestGetItem(t *testing.T) {
	byName := map[string]int{"a": 1}
	byID := map[int64]string{7: "seven"}

	assert.Equal(t, 1, GetItem(byName, "a"))
	assert.Nil(t, GetItem(byName, "missing"))
	assert.Equal(t, "seven", GetItem(byID, int64(7)))
	assert.Equal(t, "seven", GetItem(byID, 7), "convertible keys are converted")
	assert.Nil(t, GetItem(byID, "7"))
	assert.Nil(t, GetItem("not a map", "a"))
	assert.Nil(t, GetItem(byName, nil))

	var nilMap map[string]int
	assert.Nil(t, GetItem(nilMap, "a"))
}
