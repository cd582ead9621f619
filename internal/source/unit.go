// Package source holds the mutable line buffer of one processing unit.
package source

import (
	"slices"
	"strings"
)

// Unit is the full text of one source file as an ordered sequence of lines.
type Unit struct {
	Name  string   // Unit identity, usually the file path
	Lines []string // Lines without their terminating newline
}

// Parse splits data into lines. Joining the lines with "\n" reproduces data exactly.
func Parse(name string, data []byte) *Unit {
	return &Unit{
		Name:  name,
		Lines: strings.Split(string(data), "\n"),
	}
}

// Bytes joins the lines back into file content.
func (u *Unit) Bytes() []byte {
	return []byte(strings.Join(u.Lines, "\n"))
}

// Clone returns an independent copy of the unit.
func (u *Unit) Clone() *Unit {
	return &Unit{
		Name:  u.Name,
		Lines: slices.Clone(u.Lines),
	}
}

// Line returns line i with surrounding whitespace removed.
func (u *Unit) Line(i int) string {
	return strings.TrimSpace(u.Lines[i])
}

// Len returns the number of lines.
func (u *Unit) Len() int {
	return len(u.Lines)
}

// Equal reports whether both units hold the same lines.
func (u *Unit) Equal(other *Unit) bool {
	return slices.Equal(u.Lines, other.Lines)
}
