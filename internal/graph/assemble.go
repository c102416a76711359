package graph

import "strings"

// Result is the outcome of one assembly pass.
type Result struct {
	// Order holds the emitted units in emission order.
	Order []*Unit

	// Excluded holds the units that could not be emitted, in configured order.
	Excluded []*Unit
}

// Contents returns the directive-stripped content of every emitted unit.
func (r *Result) Contents() []string {
	out := make([]string, len(r.Order))
	for i, u := range r.Order {
		out[i] = u.Content
	}
	return out
}

// Join concatenates the emitted contents with sep between units. There is
// never a trailing separator.
func (r *Result) Join(sep string) string {
	return strings.Join(r.Contents(), sep)
}

// Paths returns the emitted unit paths in emission order.
func (r *Result) Paths() []string {
	out := make([]string, len(r.Order))
	for i, u := range r.Order {
		out[i] = u.Path
	}
	return out
}

// ExcludedPaths returns the paths of the units left out of the output.
func (r *Result) ExcludedPaths() []string {
	out := make([]string, len(r.Excluded))
	for i, u := range r.Excluded {
		out[i] = u.Path
	}
	return out
}

// frame is one level of the cascading emission: the unit that was just
// emitted and the index of the next dependent to visit. Dependents are
// visited from the end, so the most recently registered one goes first.
type frame struct {
	unit *Unit
	next int
}

// Assemble orders the units so that every dependency precedes its
// dependents. Units are visited in configured order; each unit with no
// pending dependencies is emitted, and emitting a unit immediately cascades
// depth first into any dependent whose last pending dependency it was.
// Dependents are visited most-recently-registered first, which is the
// deterministic tie-break between independent branches.
//
// Units left with pending dependencies are reported in Result.Excluded and
// can be classified with Diagnose. Assemble builds the session if needed and
// returns the same result on repeated calls.
func (s *Session) Assemble() *Result {
	s.Build()
	if !s.assembled {
		s.assembled = true
		for _, u := range s.order {
			if !u.Emitted && len(u.Pending) == 0 {
				s.cascade(u)
			}
		}
	}

	res := &Result{Order: s.emitted}
	for _, u := range s.order {
		if !u.Emitted {
			res.Excluded = append(res.Excluded, u)
		}
	}
	return res
}

// cascade emits u and then every dependent it unblocks. It uses an explicit
// stack instead of recursion so long dependency chains cannot exhaust the
// goroutine stack; the visiting order is identical to the recursive form.
func (s *Session) cascade(u *Unit) {
	s.emit(u)
	stack := []frame{{unit: u, next: len(u.Dependents) - 1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		dep := s.units[top.unit.Dependents[top.next]]
		top.next--
		if dep == nil || dep.Emitted {
			continue
		}
		dep.resolvePending(top.unit.Path)
		if len(dep.Pending) == 0 {
			s.emit(dep)
			stack = append(stack, frame{unit: dep, next: len(dep.Dependents) - 1})
		}
	}
}

func (s *Session) emit(u *Unit) {
	u.Emitted = true
	s.emitted = append(s.emitted, u)
}
