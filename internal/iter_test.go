package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"one": 1}
	b := map[string]int{"two": 2, "three": 3}

	got := map[string]int{}
	for key, value := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[key] = value
	}
	assert.Equal(map[string]int{"one": 1, "two": 2, "three": 3}, got)

	count := 0
	for range IterSeq2Concat(maps.All(b), maps.All(a)) {
		count++
		break
	}
	assert.Equal(1, count)
}
