package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/dusk-indust/oconcat/internal/sourcemap"
	"github.com/dusk-indust/oconcat/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
options:
  separator: ";\n"
  banner: "/*! {{ .name }} */\n"
  stripBanners: true
data:
  name: app
targets:
  - name: app
    dest: dist/app.js
    src:
      - src/**/*.js
      - "!src/**/*_test.js"
    options:
      sourceMap: true
      sourceMapStyle: inline
      stripBanners:
        block: true
  - dest: dist/vendor.js
    src: vendor/lib.js
    options:
      separator: "\n"
      process:
        data:
          version: "1.0"
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoad_NoConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Targets)

	_, err = Find(t.TempDir())
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestLoad_YamlExtension(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"oconcat.yaml": "targets:\n  - dest: out.js\n    src: [a.js]\n",
	})
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "out.js", cfg.Targets[0].DisplayName())
}

func TestLoad_InvalidYaml(t *testing.T) {
	dir := writeProject(t, map[string]string{"oconcat.yml": "targets: [\n"})
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oconcat.yml")
}

func TestLoad_OptionForms(t *testing.T) {
	dir := writeProject(t, map[string]string{"oconcat.yml": sampleConfig})
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 2)

	assert.Equal(t, &StripBanners{Enabled: true}, cfg.Options.StripBanners)
	assert.Equal(t, &StripBanners{Enabled: true, Block: true}, cfg.Targets[0].Options.StripBanners)
	assert.Equal(t, Patterns{"src/**/*.js", "!src/**/*_test.js"}, cfg.Targets[0].Src)
	assert.Equal(t, Patterns{"vendor/lib.js"}, cfg.Targets[1].Src)
	assert.Equal(t, &Process{Enabled: true, Data: map[string]any{"version": "1.0"}}, cfg.Targets[1].Options.Process)
	assert.Equal(t, []string{"app", "dist/vendor.js"}, cfg.Names())
}

func TestTargets_ResolvesOptionsAndSources(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"oconcat.yml":       sampleConfig,
		"src/a.js":          "A",
		"src/lib/b.js":      "B",
		"src/lib/b_test.js": "T",
		"src/lib/notes.txt": "N",
		"vendor/lib.js":     "V",
		"vendor/ignored.js": "I",
	})
	cfg, err := Load(dir)
	require.NoError(t, err)

	targets, err := cfg.ResolveTargets(dir)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	app := targets[0]
	assert.Equal(t, "app", app.Name)
	assert.Equal(t, "dist/app.js", app.Dest)
	assert.Equal(t, []string{
		filepath.FromSlash("src/a.js"),
		filepath.FromSlash("src/lib/b.js"),
	}, app.Sources)
	assert.Equal(t, ";\n", app.Options.Separator)
	assert.Equal(t, "/*! {{ .name }} */\n", app.Options.Banner)
	assert.Equal(t, transform.StripOptions{Enabled: true, Block: true}, app.Options.StripBanners)
	assert.True(t, app.Options.SourceMap)
	assert.Equal(t, sourcemap.StyleInline, app.Options.SourceMapStyle)
	assert.Equal(t, map[string]any{"name": "app"}, app.Options.Data)
	assert.False(t, app.Options.Process.Active())

	vendor := targets[1]
	assert.Equal(t, "dist/vendor.js", vendor.Name)
	assert.Equal(t, []string{filepath.FromSlash("vendor/lib.js")}, vendor.Sources)
	assert.Equal(t, "\n", vendor.Options.Separator)
	assert.Equal(t, transform.ProcessTemplate, vendor.Options.Process.Kind())
	assert.Equal(t, map[string]any{"name": "app", "version": "1.0"}, vendor.Options.Process.Data())
	assert.Equal(t, transform.StripOptions{Enabled: true}, vendor.Options.StripBanners)
	assert.Equal(t, sourcemap.StyleEmbed, vendor.Options.SourceMapStyle)
}

func TestTargets_SelectByName(t *testing.T) {
	cfg := &ProjectConfig{Targets: []TargetConfig{
		{Name: "a", Dest: "a.js", Src: Patterns{"x.js"}},
		{Name: "b", Dest: "b.js", Src: Patterns{"y.js"}},
	}}

	targets, err := cfg.ResolveTargets(t.TempDir(), "b")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "b", targets[0].Name)
	assert.Equal(t, []string{"y.js"}, targets[0].Sources, "literal paths are kept even when missing")

	_, err = cfg.ResolveTargets(t.TempDir(), "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "c"`)
}

func TestTargets_Errors(t *testing.T) {
	cfg := &ProjectConfig{Targets: []TargetConfig{{Name: "nodest", Src: Patterns{"a.js"}}}}
	_, err := cfg.ResolveTargets(t.TempDir())
	assert.ErrorIs(t, err, orchestrator.ErrNoDestination)

	style := "hidden"
	cfg = &ProjectConfig{Targets: []TargetConfig{{
		Dest:    "out.js",
		Src:     Patterns{"a.js"},
		Options: Options{SourceMapStyle: &style},
	}}}
	_, err = cfg.ResolveTargets(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hidden")
}

func TestOptions_Merge(t *testing.T) {
	sep, banner, override := "\n", "top", "bottom"
	yes := true

	base := Options{Separator: &sep, Banner: &banner}
	merged := base.Merge(Options{Banner: &override, Force: &yes})

	assert.Equal(t, &sep, merged.Separator)
	assert.Equal(t, "bottom", *merged.Banner)
	assert.True(t, *merged.Force)
	assert.Equal(t, "top", *base.Banner, "receiver is not modified")
}

func TestOptions_ResolveDefaults(t *testing.T) {
	opts, err := Options{}.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.DefaultOptions().Separator, opts.Separator)
	assert.Equal(t, sourcemap.StyleEmbed, opts.SourceMapStyle)
	assert.Equal(t, ".", opts.Root)
	assert.Equal(t, "out.js.map", opts.SourceMapName.Resolve("out.js"))

	name := "maps/out.map"
	opts, err = Options{SourceMapName: &name}.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "maps/out.map", opts.SourceMapName.Resolve("out.js"))
}
