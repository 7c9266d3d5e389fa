package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentKeyword(t *testing.T) {
	assert.Equal(t, SELECT, LookupIdent("SELECT"))
	assert.Equal(t, WHERE, LookupIdent("WHERE"))
	assert.Equal(t, GROUP, LookupIdent("GROUP"))
}

func TestLookupIdentNonKeyword(t *testing.T) {
	assert.Equal(t, IDENT, LookupIdent("TRACKID"))
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, SELECT.IsKeyword())
	assert.False(t, IDENT.IsKeyword())
	assert.False(t, EOF.IsKeyword())
}
