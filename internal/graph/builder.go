package graph

import (
	"regexp"
	"sort"
	"strings"
)

// directivePattern matches a dependency directive: dependsOn("<path>"),
// optionally followed by ";" and one line break. The whole match is removed
// from the unit's content.
var directivePattern = regexp.MustCompile(`dependsOn\("((?:[^"\\]|\\.)*)"\);?(?:\r?\n)?`)

// Unit is one configured source file within a single destination's merge.
type Unit struct {
	// Path is the canonical path, unique within a Session.
	Path string

	// Raw is the content as handed to the session, directives included.
	Raw string

	// Content is Raw with every directive removed.
	Content string

	// Directives lists every directive found in Raw, in source order.
	Directives []Directive

	// Requires lists the declared dependencies (self references elided) in
	// registration order. It is never modified after Build.
	Requires []string

	// Pending is the residual forward-edge set: dependencies that have not
	// been emitted yet. Empty means the unit is eligible for emission.
	Pending []string

	// Dependents lists the units that declared this one as a dependency, in
	// the order the edges were registered.
	Dependents []string

	// Emitted is set once the unit's content has been placed in the output.
	Emitted bool

	segments []segment
}

// Directive is a parsed dependsOn marker.
type Directive struct {
	Ref      string // reference exactly as written between the quotes
	Resolved string // canonical path the reference resolved to
	Self     bool   // reference resolved to the declaring unit
}

// hasPending reports whether path is still in the unit's forward-edge set.
func (u *Unit) hasPending(path string) bool {
	for _, p := range u.Pending {
		if p == path {
			return true
		}
	}
	return false
}

// resolvePending removes path from the forward-edge set.
func (u *Unit) resolvePending(path string) {
	kept := u.Pending[:0]
	for _, p := range u.Pending {
		if p != path {
			kept = append(kept, p)
		}
	}
	u.Pending = kept
}

// Session holds the working state of one destination's assembly pass: the
// unit map, forward and backward edges, the emitted set and the emission
// order. Sessions share nothing, so destinations can be assembled in
// parallel without synchronization.
type Session struct {
	resolver   *Resolver
	units      map[string]*Unit
	order      []*Unit
	dependents map[string][]string // backward edges, keyed by dependency path
	emitted    []*Unit
	built      bool
	assembled  bool
}

// NewSession creates an empty session resolving references with r.
func NewSession(r *Resolver) *Session {
	if r == nil {
		r = NewResolver("")
	}
	return &Session{
		resolver:   r,
		units:      make(map[string]*Unit),
		dependents: make(map[string][]string),
	}
}

// Add registers a configured source file. Paths are canonicalized; a path
// that is already present is ignored so each file appears at most once, at
// its first configured position. Add reports whether the unit was created.
func (s *Session) Add(path, content string) bool {
	key := Canonical(path)
	if _, ok := s.units[key]; ok {
		return false
	}
	u := &Unit{Path: key, Raw: content, Content: content}
	s.units[key] = u
	s.order = append(s.order, u)
	return true
}

// Unit returns the unit registered under path, or nil.
func (s *Session) Unit(path string) *Unit {
	return s.units[Canonical(path)]
}

// Units returns all units in configured order.
func (s *Session) Units() []*Unit {
	out := make([]*Unit, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether path is one of the configured units.
func (s *Session) Has(path string) bool {
	_, ok := s.units[Canonical(path)]
	return ok
}

// Build scans every unit for directives, strips them and registers forward
// and backward edges. It is idempotent.
func (s *Session) Build() {
	if s.built {
		return
	}
	s.built = true
	for _, u := range s.order {
		s.scan(u)
	}
	for _, u := range s.order {
		u.Dependents = s.dependents[u.Path]
	}
}

// scan parses the directives of a single unit.
func (s *Session) scan(u *Unit) {
	var b strings.Builder
	u.segments = u.segments[:0]
	last := 0
	for _, m := range directivePattern.FindAllStringSubmatchIndex(u.Raw, -1) {
		u.keep(&b, last, m[0])
		last = m[1]

		ref := u.Raw[m[2]:m[3]]
		resolved := s.resolver.Resolve(ref, u.Path)
		d := Directive{Ref: ref, Resolved: resolved, Self: resolved == u.Path}
		u.Directives = append(u.Directives, d)
		if !d.Self && !u.hasPending(resolved) {
			u.Requires = append(u.Requires, resolved)
			u.Pending = append(u.Pending, resolved)
			s.dependents[resolved] = append(s.dependents[resolved], u.Path)
		}
	}
	u.keep(&b, last, len(u.Raw))
	u.Content = b.String()
}

// segment records that Content[content:content+n] was copied from
// Raw[raw:raw+n].
type segment struct {
	content, raw, n int
}

func (u *Unit) keep(b *strings.Builder, from, to int) {
	if to <= from {
		return
	}
	u.segments = append(u.segments, segment{content: b.Len(), raw: from, n: to - from})
	b.WriteString(u.Raw[from:to])
}

// LineOrigins returns, for every line of Content, the zero-based line of Raw
// it was copied from. Lines are only shifted by removed directives, so
// without directives line i maps to line i.
func (u *Unit) LineOrigins() []int {
	var breaks []int
	for i := 0; i < len(u.Raw); i++ {
		if u.Raw[i] == '\n' {
			breaks = append(breaks, i)
		}
	}
	rawLine := func(offset int) int {
		raw := len(u.Raw)
		for _, seg := range u.segments {
			if offset < seg.content+seg.n {
				raw = seg.raw + offset - seg.content
				break
			}
		}
		return sort.SearchInts(breaks, raw)
	}

	origins := []int{rawLine(0)}
	for i := 0; i < len(u.Content); i++ {
		if u.Content[i] == '\n' {
			origins = append(origins, rawLine(i+1))
		}
	}
	return origins
}

// Edge is a declared dependency: From must be emitted after To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Edges returns every declared edge in configured order, then registration
// order. Edges to paths that are not configured units are included.
func (s *Session) Edges() []Edge {
	s.Build()
	var edges []Edge
	for _, u := range s.order {
		for _, dep := range u.Requires {
			edges = append(edges, Edge{From: u.Path, To: dep})
		}
	}
	return edges
}
