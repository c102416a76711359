package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession builds a session from alternating path/content pairs.
func newTestSession(t *testing.T, root string, pairs ...string) *Session {
	t.Helper()
	require.Equal(t, 0, len(pairs)%2, "pairs must be path/content")
	s := NewSession(NewResolver(root))
	for i := 0; i < len(pairs); i += 2 {
		s.Add(pairs[i], pairs[i+1])
	}
	return s
}

func TestAssemble_DependencyBeforeDependent(t *testing.T) {
	s := newTestSession(t, "",
		"dep1", "dependsOn(\"./dep2\");\nA",
		"dep2", "B",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"dep2", "dep1"}, res.Paths())
	assert.Equal(t, "B\nA", res.Join("\n"))
	assert.Empty(t, res.Excluded)
}

func TestAssemble_DirectiveStrippedWithTerminatorAndNewline(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"semicolon and LF", "x\ndependsOn(\"./b\");\ny", "x\ny"},
		{"semicolon and CRLF", "x\r\ndependsOn(\"./b\");\r\ny", "x\r\ny"},
		{"no terminator", "dependsOn(\"./b\")\ny", "y"},
		{"no newline", "dependsOn(\"./b\"); y", " y"},
		{"inside a comment", "// dependsOn(\"./b\");\ny", "// y"},
		{"escaped quote", "dependsOn(\"./b\\\"q\");z", "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, "", "a", tt.raw)
			s.Build()
			assert.Equal(t, tt.want, s.Unit("a").Content)
			require.Len(t, s.Unit("a").Directives, 1)
		})
	}
}

func TestAssemble_IndependentUnitsKeepConfiguredOrder(t *testing.T) {
	s := newTestSession(t, "",
		"c.js", "C",
		"a.js", "A",
		"b.js", "B",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"c.js", "a.js", "b.js"}, res.Paths())
}

func TestAssemble_SelfReferenceIsNoDependency(t *testing.T) {
	s := newTestSession(t, "",
		"src/a.js", "dependsOn(\"./a.js\");\nA",
		"src/b.js", "B",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"src/a.js", "src/b.js"}, res.Paths())
	a := s.Unit("src/a.js")
	assert.Empty(t, a.Requires)
	assert.Empty(t, a.Dependents)
	require.Len(t, a.Directives, 1)
	assert.True(t, a.Directives[0].Self)
	assert.Equal(t, "A", a.Content)
	assert.Empty(t, s.Diagnose(t.Context(), existsIn()))
}

func TestAssemble_MostRecentDependentFirst(t *testing.T) {
	// x and y both wait on base; y registered its edge last, so it cascades
	// first once base is emitted.
	s := newTestSession(t, "",
		"x", "dependsOn(\"./base\");X",
		"y", "dependsOn(\"./base\");Y",
		"base", "BASE",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"base", "y", "x"}, res.Paths())
}

func TestAssemble_CascadeIsDepthFirst(t *testing.T) {
	// base unblocks b1 and c1; c1 (registered last) cascades into c2 before
	// b1 is visited, and everything happens before "tail" in the outer loop.
	s := newTestSession(t, "",
		"b1", "dependsOn(\"./base\");b1",
		"c1", "dependsOn(\"./base\");c1",
		"c2", "dependsOn(\"./c1\");c2",
		"base", "base",
		"tail", "tail",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"base", "c1", "c2", "b1", "tail"}, res.Paths())
}

func TestAssemble_WaitsForAllDependencies(t *testing.T) {
	s := newTestSession(t, "",
		"app", "dependsOn(\"./a\");dependsOn(\"./b\");app",
		"a", "a",
		"b", "b",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"a", "b", "app"}, res.Paths())
}

func TestAssemble_DuplicateDirectiveEmitsOnce(t *testing.T) {
	s := newTestSession(t, "",
		"app", "dependsOn(\"./a\");\ndependsOn(\"./a\");\napp",
		"a", "a",
	)

	res := s.Assemble()
	assert.Equal(t, []string{"a", "app"}, res.Paths())
	assert.Equal(t, []string{"a"}, s.Unit("app").Requires)
	assert.Len(t, s.Unit("app").Directives, 2)
}

func TestAssemble_DuplicateConfiguredPathIgnored(t *testing.T) {
	s := NewSession(nil)
	assert.True(t, s.Add("src/a.js", "first"))
	assert.False(t, s.Add("./src/a.js", "second"))

	res := s.Assemble()
	assert.Equal(t, []string{"first"}, res.Contents())
}

func TestAssemble_RootRelativeDependency(t *testing.T) {
	s := newTestSession(t, "lib",
		"src/app.js", "dependsOn(\"/util.js\");\napp",
		"lib/util.js", "util",
	)

	res := s.Assemble()
	assert.Equal(t, "util\napp", res.Join("\n"))
}

func TestAssemble_EveryDependencyPrecedesDependents(t *testing.T) {
	// A diamond plus an unrelated chain, configured in reverse.
	s := newTestSession(t, "",
		"top", "dependsOn(\"./left\");dependsOn(\"./right\");top",
		"left", "dependsOn(\"./bottom\");left",
		"right", "dependsOn(\"./bottom\");right",
		"z3", "dependsOn(\"./z2\");z3",
		"z2", "dependsOn(\"./z1\");z2",
		"z1", "z1",
		"bottom", "bottom",
	)

	res := s.Assemble()
	require.Len(t, res.Order, 7)
	pos := make(map[string]int)
	for i, p := range res.Paths() {
		pos[p] = i
	}
	for _, e := range s.Edges() {
		assert.Less(t, pos[e.To], pos[e.From], "%s must precede %s", e.To, e.From)
	}
}

func TestAssemble_DeepChainUsesNoRecursion(t *testing.T) {
	const depth = 50000
	s := NewSession(nil)
	for i := 0; i < depth; i++ {
		content := fmt.Sprintf("u%d", i)
		if i > 0 {
			content = fmt.Sprintf("dependsOn(\"./u%d\");u%d", i-1, i)
		}
		s.Add(fmt.Sprintf("u%d", i), content)
	}

	res := s.Assemble()
	require.Len(t, res.Order, depth)
	assert.Equal(t, "u0", res.Order[0].Path)
	assert.Equal(t, fmt.Sprintf("u%d", depth-1), res.Order[depth-1].Path)
}

func TestAssemble_RepeatedCallsAreStable(t *testing.T) {
	s := newTestSession(t, "",
		"a", "dependsOn(\"./b\");a",
		"b", "b",
	)

	first := s.Assemble().Join(",")
	second := s.Assemble().Join(",")
	assert.Equal(t, first, second)
	assert.Equal(t, "b,a", first)
}

func TestAssemble_EmptySession(t *testing.T) {
	res := NewSession(nil).Assemble()
	assert.Empty(t, res.Order)
	assert.Equal(t, "", res.Join("\n"))
}

func TestEdges(t *testing.T) {
	s := newTestSession(t, "",
		"a", "dependsOn(\"./b\");dependsOn(\"./missing\");a",
		"b", "b",
	)

	assert.Equal(t, []Edge{{From: "a", To: "b"}, {From: "a", To: "missing"}}, s.Edges())
}

func TestJoin_NoTrailingSeparator(t *testing.T) {
	s := newTestSession(t, "", "a", "A", "b", "B")
	got := s.Assemble().Join("\n;\n")
	assert.Equal(t, "A\n;\nB", got)
	assert.False(t, strings.HasSuffix(got, ";\n"))
}

func TestLineOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"no directives", "a\nb", []int{0, 1}},
		{"leading directive line", "dependsOn(\"./b\");\nx\ny", []int{1, 2}},
		{"directive without newline", "x\ndependsOn(\"./b\"); y\nz", []int{0, 1, 2}},
		{"trailing newline", "a\n", []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, "", "a", tt.raw)
			s.Build()
			assert.Equal(t, tt.want, s.Unit("a").LineOrigins())
		})
	}
}
