package status

import (
	"context"
	"testing"

	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/dusk-indust/oconcat/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func target(name string, sources ...string) orchestrator.Target {
	return orchestrator.Target{
		Name:    name,
		Dest:    "dist/" + name + ".js",
		Sources: sources,
		Options: orchestrator.DefaultOptions(),
	}
}

func TestCheck_States(t *testing.T) {
	fs := fsys.NewMemory(map[string]string{
		"a.js":        "A",
		"b.js":        "dependsOn(\"./a.js\");\nB",
		"dist/ok.js":  "A\nB",
		"dist/old.js": "B\nA",
	})
	m := orchestrator.NewMerger(fs, nil)
	targets := []orchestrator.Target{
		target("ok", "b.js", "a.js"),
		target("old", "b.js", "a.js"),
		target("new", "a.js"),
	}

	statuses, err := Check(context.Background(), m, fs, targets)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.Equal(t, TargetStatus{Name: "ok", Dest: "dist/ok.js", State: StateUpToDate, Files: 2}, statuses[0])
	assert.Equal(t, StateStale, statuses[1].State)
	assert.Equal(t, StateMissing, statuses[2].State)
	assert.Equal(t, []string{"old", "new"}, Pending(statuses))

	ok, err := fs.Exists(context.Background(), "dist/new.js")
	require.NoError(t, err)
	assert.False(t, ok, "Check never writes")
}

func TestCheck_LinkMapMissing(t *testing.T) {
	fs := fsys.NewMemory(map[string]string{
		"a.js":      "A",
		"dist/m.js": "A\n//# sourceMappingURL=m.js.map",
	})
	tg := target("m", "a.js")
	tg.Options.SourceMap = true
	tg.Options.SourceMapStyle = sourcemap.StyleLink

	statuses, err := Check(context.Background(), orchestrator.NewMerger(fs, nil), fs, []orchestrator.Target{tg})
	require.NoError(t, err)
	assert.Equal(t, StateMissing, statuses[0].State)
}

func TestCheck_ReportsWarnings(t *testing.T) {
	fs := fsys.NewMemory(map[string]string{"a.js": "dependsOn(\"./gone.js\");A"})

	statuses, err := Check(context.Background(), orchestrator.NewMerger(fs, nil), fs,
		[]orchestrator.Target{target("w", "a.js", "nope.js")})
	require.NoError(t, err)
	assert.Equal(t, 0, statuses[0].Files)
	assert.Equal(t, 1, statuses[0].Excluded)
	assert.Equal(t, 3, statuses[0].Warnings)
}

func TestPending_AllUpToDate(t *testing.T) {
	assert.Empty(t, Pending([]TargetStatus{{Name: "a", State: StateUpToDate}}))
}
