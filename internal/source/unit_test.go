package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("Should round trip content byte for byte", func(t *testing.T) {
		inputs := []string{
			"",
			"package x\n",
			"package x\n\n\n",
			"package x\r\ntype A struct{}\r\n",
			"no trailing newline",
		}
		for _, in := range inputs {
			assert.Equal(t, in, string(Parse("u.go", []byte(in)).Bytes()))
		}
	})
	t.Run("Should keep an empty last line for a trailing newline", func(t *testing.T) {
		u := Parse("u.go", []byte("a\nb\n"))
		assert.Equal(t, []string{"a", "b", ""}, u.Lines)
	})
}

func TestUnit_Clone(t *testing.T) {
	u := Parse("u.go", []byte("a\nb"))
	c := u.Clone()
	c.Lines[0] = "changed"
	assert.Equal(t, "a", u.Lines[0])
	assert.False(t, u.Equal(c))
	assert.Equal(t, "u.go", c.Name)
}

func TestUnit_Line(t *testing.T) {
	u := Parse("u.go", []byte("\t  //beangen:bean  \r"))
	assert.Equal(t, "//beangen:bean", u.Line(0))
	assert.Equal(t, 1, u.Len())
}
