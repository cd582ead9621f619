// Package region locates the marker-delimited generated region of a source unit.
package region

import (
	"slices"
	"strings"

	"beangen/internal/model"
	"beangen/internal/source"
)

// Canonical marker lines and the payloads that identify them.
const (
	StartMarker  = "//------------------------- AUTOGENERATED START -------------------------"
	EndMarker    = "//-------------------------- AUTOGENERATED END --------------------------"
	StartPayload = " AUTOGENERATED START "
	EndPayload   = " AUTOGENERATED END "
)

// Region is the insert region of a unit: the lines strictly between Start and End.
type Region struct {
	Start int // Line index of the start marker
	End   int // Line index of the end marker
}

// Len returns the number of lines inside the region.
func (r Region) Len() int {
	return r.End - r.Start - 1
}

// Contains reports whether line i lies strictly between the markers.
func (r Region) Contains(i int) bool {
	return i > r.Start && i < r.End
}

// Locate finds or inserts both markers in u and normalizes them to their
// canonical text. Indentation in front of an existing marker is kept.
func Locate(u *source.Unit) (Region, error) {
	if isBlank(u) {
		return Region{}, model.Errorf(model.ErrMissingStructure, u.Name, -1,
			"unit has no content to anchor the generated region")
	}

	start := find(u, StartPayload, 0)
	if start >= 0 {
		u.Lines[start] = normalize(u.Lines[start], StartMarker)
	} else {
		last := lastNonBlank(u)
		u.Lines = slices.Insert(u.Lines, last+1, "", StartMarker)
		start = last + 2
	}

	end := find(u, EndPayload, start+1)
	if end >= 0 {
		u.Lines[end] = normalize(u.Lines[end], EndMarker)
	} else {
		u.Lines = slices.Insert(u.Lines, start+1, EndMarker)
		end = start + 1
	}
	return Region{Start: start, End: end}, nil
}

// Replace discards the region contents and writes lines in their place.
// It returns the region adjusted to the new content.
func Replace(u *source.Unit, r Region, lines []string) Region {
	u.Lines = slices.Replace(u.Lines, r.Start+1, r.End, lines...)
	return Region{Start: r.Start, End: r.Start + 1 + len(lines)}
}

func find(u *source.Unit, payload string, from int) int {
	for i := from; i < u.Len(); i++ {
		if strings.Contains(u.Lines[i], payload) {
			return i
		}
	}
	return -1
}

func normalize(line, marker string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return indent + marker
}

func lastNonBlank(u *source.Unit) int {
	for i := u.Len() - 1; i >= 0; i-- {
		if u.Line(i) != "" {
			return i
		}
	}
	return -1
}

func isBlank(u *source.Unit) bool {
	return lastNonBlank(u) < 0
}
