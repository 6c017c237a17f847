package dump

import "strings"

// Sink accumulates rendered text. It holds no indentation state; every rule
// derives its prefix from the level it was called with.
type Sink struct {
	b strings.Builder
}

func (s *Sink) add(parts ...string) *Sink {
	for _, p := range parts {
		s.b.WriteString(p)
	}
	return s
}

// newline starts a fresh line indented for level.
func (s *Sink) newline(level int) *Sink {
	s.b.WriteByte('\n')
	s.b.WriteString(indent(level))
	return s
}

func (s *Sink) String() string {
	return s.b.String()
}

func (s *Sink) Len() int {
	return s.b.Len()
}

func indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("  ", level)
}
