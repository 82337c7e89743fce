package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1, "b": 2}
	b := map[string]int{"c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	// Stops early.
	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	ordered := IterSeq2Concat(slices.All([]string{"x"}), slices.All([]string{"y", "z"}))
	var values []string
	for _, v := range ordered {
		values = append(values, v)
	}
	assert.Equal([]string{"x", "y", "z"}, values)

	assert.Empty(maps.Collect(IterSeq2Concat[string, int]()))
}
