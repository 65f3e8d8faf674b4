package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefineList(t *testing.T) {
	assert := assert.New(t)

	dl := defineList{}
	assert.NoError(dl.Set("LIMIT=12"))
	assert.NoError(dl.Set("EMPTY="))
	assert.NoError(dl.Set("EXPR=1=1"))
	assert.Equal(defineList{"LIMIT": "12", "EMPTY": "", "EXPR": "1=1"}, dl)

	err := dl.Set("LIMIT")
	assert.ErrorIs(err, ErrDefine)
	assert.Contains(err.Error(), "'LIMIT'")

	assert.ErrorIs(dl.Set("=12"), ErrDefine)

	one := defineList{"A": "1"}
	assert.Equal("A=1", one.String())
}
