package region

import (
	"regexp"
	"strings"

	"beangen/internal/model"
	"beangen/internal/source"
)

// Overrides reports which generated methods are already written by hand.
type Overrides struct {
	Equality bool // Equal or HashCode present
	String   bool // String present
}

var (
	equalPattern  = regexp.MustCompile(`^func\s*\(\s*[A-Za-z_]\w*\s+\*?(\w+)(?:\[[^\]]*\])?\s*\)\s*Equal\(\s*\w+\s+[^,()]+\)\s*bool\s*\{`)
	hashPattern   = regexp.MustCompile(`^func\s*\(\s*[A-Za-z_]\w*\s+\*?(\w+)(?:\[[^\]]*\])?\s*\)\s*HashCode\(\s*\)\s*int\s*\{`)
	stringPattern = regexp.MustCompile(`^func\s*\(\s*[A-Za-z_]\w*\s+\*?(\w+)(?:\[[^\]]*\])?\s*\)\s*String\(\s*\)\s*string\s*\{`)
)

// FindOverrides scans the lines outside r for hand-written Equal, HashCode and
// String methods whose receiver is the named entity.
func FindOverrides(u *source.Unit, r Region, entity string) Overrides {
	var o Overrides
	for i := 0; i < u.Len(); i++ {
		if i == r.Start || i == r.End || r.Contains(i) {
			continue
		}
		line := u.Line(i)
		if !strings.HasPrefix(line, "func") {
			continue
		}
		if receiverIs(equalPattern, line, entity) || receiverIs(hashPattern, line, entity) {
			o.Equality = true
		}
		if receiverIs(stringPattern, line, entity) {
			o.String = true
		}
	}
	return o
}

// Apply records the overrides on the entity.
func (o Overrides) Apply(e *model.Entity) {
	e.ManualEquality = o.Equality
	e.ManualString = o.String
}

func receiverIs(p *regexp.Regexp, line, entity string) bool {
	m := p.FindStringSubmatch(line)
	return m != nil && m[1] == entity
}
