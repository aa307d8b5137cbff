package grammars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Contains(t, Names(), "english")
}

func TestOpen_English(t *testing.T) {
	g, err := Open("english")
	require.NoError(t, err)

	assert.Equal(t, "S", g.Start())
	assert.Contains(t, g.Terminals(), "greyhound")
	n, ok := g.Arity("Swhmain")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open("klingon")
	assert.Error(t, err)

	_, err = Source("klingon")
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	src, err := Source("english")
	require.NoError(t, err)
	assert.Contains(t, src, "%start S")
}
