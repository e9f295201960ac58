package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Harry Potter", "Harry+Potter"},
		{"slash", "Kingdom Hearts/Final Fantasy", "Kingdom+Hearts__Final+Fantasy"},
		{"no_change", "Naruto", "Naruto"},
		{"unicode_passthrough", "Pokémon", "Pokémon"},
		{"multiple_spaces", "a  b", "a++b"},
		{"leading_trailing_slash", "/A/", "__A__"},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Normalize(c.in))
		})
	}
}

func TestNormalizeIdempotentOnAlreadySafeNames(t *testing.T) {
	in := "already+safe__name"
	assert.Equal(t, in, Normalize(in))
}
