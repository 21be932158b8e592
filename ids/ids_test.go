package ids_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/ids"
)

func TestInterningIsIdempotent(t *testing.T) {
	s := ids.NewStorage()

	a := s.Add("LOOP")
	b := s.Add("LOOP")
	c := s.Add("DONE")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "LOOP", s.Text(a))
}

func TestInterningIsCaseInsensitive(t *testing.T) {
	s := ids.NewStorage()

	a := s.Add("Loop")
	b := s.Add("LOOP")
	assert.Equal(t, a, b)
	assert.Equal(t, "LOOP", s.Text(a))
}

func TestFind(t *testing.T) {
	s := ids.NewStorage()

	_, ok := s.Find("MISSING")
	assert.False(t, ok)

	id := s.Add("PRESENT")
	found, ok := s.Find("present")
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestEmptySentinel(t *testing.T) {
	s := ids.NewStorage()

	assert.Equal(t, ids.Empty, s.Add(""))
	assert.Equal(t, "", s.Text(ids.Empty))
}
