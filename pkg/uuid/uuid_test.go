package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	u, err := New()
	require.NoError(t, err)

	s := u.String()
	assert.Len(t, s, 36)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, u, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-uuid")
	require.Error(t, err)

	_, err = Parse("")
	require.Error(t, err)
}

func TestShort(t *testing.T) {
	u := MustNew()
	short := u.Short()

	assert.Len(t, short, 8)
	assert.Equal(t, u.String()[:8], short)
}

func TestVersionAndVariantBits(t *testing.T) {
	u := MustNew()

	assert.Equal(t, byte(0x40), u[6]&0xf0, "version 4")
	assert.Equal(t, byte(0x80), u[8]&0xc0, "RFC 4122 variant")
}
