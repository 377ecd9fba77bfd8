package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 100, clampLimit(0))
	assert.Equal(t, 100, clampLimit(-5))
	assert.Equal(t, 100, clampLimit(501))
	assert.Equal(t, 1, clampLimit(1))
	assert.Equal(t, 500, clampLimit(500))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}

func TestToJSON(t *testing.T) {
	assert.JSONEq(t, `[1,2]`, string(toJSON([]int{1, 2})))
	assert.Equal(t, "null", string(toJSON(nil)))
	// Unmarshalable values degrade to null instead of failing the insert.
	assert.Equal(t, "null", string(toJSON(func() {})))
}
