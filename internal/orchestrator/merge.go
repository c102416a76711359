package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/graph"
	"github.com/dusk-indust/oconcat/internal/sourcemap"
	"github.com/dusk-indust/oconcat/internal/transform"
	"go.uber.org/zap"
)

// Merger runs the merge pass of a single destination.
type Merger struct {
	fs  fsys.FileSystem
	log *zap.Logger
}

// NewMerger creates a Merger reading and writing through fs. A nil logger
// discards warnings.
func NewMerger(fs fsys.FileSystem, log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{fs: fs, log: log}
}

// Plan is the resolved dependency graph of one destination, before any
// output is rendered.
type Plan struct {
	Target  Target
	Session *graph.Session
	Result  *graph.Result

	// Diagnostics holds missing-source warnings followed by the graph
	// diagnostics of excluded units.
	Diagnostics []graph.Diagnostic
}

// Validate checks t before anything is read or written and returns the
// source map style to use. The style is nil when source maps are off, or
// when Force dropped them because of a conflict.
func Validate(t Target) (sourcemap.Style, error) {
	if t.Dest == "" {
		return nil, fmt.Errorf("target %q: %w", t.DisplayName(), ErrNoDestination)
	}
	opts := t.Options
	if !opts.SourceMap {
		return nil, nil
	}
	style, err := sourcemap.ParseStyle(string(opts.SourceMapStyle))
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", t.DisplayName(), err)
	}
	if !style.Snapshot() && (opts.Process.Active() || opts.StripBanners.Active()) {
		if opts.Force {
			return nil, nil
		}
		return nil, fmt.Errorf("target %q: %w", t.DisplayName(), ErrSourceMapConflict)
	}
	return style, nil
}

// Plan reads the sources of t, applies the content transforms and resolves
// the emission order. Nothing is written.
func (m *Merger) Plan(ctx context.Context, t Target) (*Plan, error) {
	opts := t.Options
	session := graph.NewSession(graph.NewResolver(opts.Root))
	var diags []graph.Diagnostic

	for _, src := range t.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := m.fs.Exists(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", src, err)
		}
		if !ok {
			diags = append(diags, graph.Diagnostic{Kind: graph.KindMissingSource, Path: src})
			continue
		}
		dir, err := m.fs.IsDir(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", src, err)
		}
		if dir {
			m.log.Debug("skipping directory", zap.String("target", t.DisplayName()), zap.String("path", src))
			continue
		}

		data, err := m.fs.Read(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
		content, err := opts.Process.Apply(string(data), src)
		if err != nil {
			return nil, err
		}
		content = transform.StripBanner(content, opts.StripBanners)
		session.Add(src, content)
	}

	result := session.Assemble()
	diags = append(diags, session.Diagnose(ctx, m.fs)...)

	return &Plan{
		Target:      t,
		Session:     session,
		Result:      result,
		Diagnostics: diags,
	}, nil
}

// Output is a rendered merge that has not been written yet.
type Output struct {
	Report *Report

	// Content is the destination file content, including the source map
	// reference when one is enabled.
	Content []byte

	// Artifacts holds additional files keyed by path, such as a link-style
	// map file.
	Artifacts map[string][]byte
}

// Merge renders t and writes the destination: banner, emitted units joined
// by the separator, footer, and the source map reference when enabled.
// Unresolved units are reported as warnings and left out. Map artifacts are
// written before the destination.
func (m *Merger) Merge(ctx context.Context, t Target) (*Report, error) {
	out, err := m.Render(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, path := range sortedKeys(out.Artifacts) {
		if err := m.fs.Write(ctx, path, out.Artifacts[path]); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := m.fs.Write(ctx, t.Dest, out.Content); err != nil {
		return nil, fmt.Errorf("write %s: %w", t.Dest, err)
	}

	r := out.Report
	m.log.Debug("merged",
		zap.String("target", r.Target),
		zap.String("dest", r.Dest),
		zap.Int("files", len(r.Emitted)),
		zap.Int("bytes", r.Bytes),
	)
	return r, nil
}

// Render performs the whole merge of t in memory. Warnings are logged as
// they would be by Merge.
func (m *Merger) Render(ctx context.Context, t Target) (*Output, error) {
	style, err := Validate(t)
	if err != nil {
		return nil, err
	}
	name := t.DisplayName()
	opts := t.Options
	if opts.SourceMap && style == nil {
		m.log.Warn("source map disabled: "+ErrSourceMapConflict.Error(), zap.String("target", name))
	}

	plan, err := m.Plan(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}
	for _, d := range plan.Diagnostics {
		m.warn(name, d)
	}

	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	banner, err := transform.Render("banner", opts.Banner, data)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}
	footer, err := transform.Render("footer", opts.Footer, data)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}

	var asm *sourcemap.Assembler
	if style != nil {
		asm = sourcemap.NewAssembler()
	}
	content := render(plan.Result, banner, footer, opts.Separator, asm)

	report := &Report{
		Target:      name,
		Dest:        t.Dest,
		Emitted:     plan.Result.Paths(),
		Excluded:    plan.Result.ExcludedPaths(),
		Diagnostics: plan.Diagnostics,
	}
	artifacts := artifactWriter{}
	if style != nil {
		mt := sourcemap.Target{Dest: t.Dest}
		if style.Name() == sourcemap.StyleLink {
			mt.MapPath = opts.SourceMapName.Resolve(t.Dest)
			report.MapPath = mt.MapPath
		}
		ref, err := style.Finish(ctx, asm, mt, artifacts)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", name, err)
		}
		content += ref
		report.SourceMap = style.Name()
	}
	report.Bytes = len(content)

	return &Output{
		Report:    report,
		Content:   []byte(content),
		Artifacts: artifacts,
	}, nil
}

// artifactWriter collects map artifacts in memory until the merge is ready
// to be written.
type artifactWriter map[string][]byte

func (w artifactWriter) Write(_ context.Context, path string, data []byte) error {
	w[path] = data
	return nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// render concatenates the output. When asm is non-nil every append is
// mirrored into it so mappings follow the emitted order exactly.
func render(res *graph.Result, banner, footer, sep string, asm *sourcemap.Assembler) string {
	var b strings.Builder
	opaque := func(s string) {
		b.WriteString(s)
		if asm != nil {
			asm.AddOpaque(s)
		}
	}

	opaque(banner)
	for i, u := range res.Order {
		if i > 0 {
			opaque(sep)
		}
		b.WriteString(u.Content)
		if asm != nil {
			asm.AddAttributed(u.Content, sourcemap.Source{
				Path:    u.Path,
				Content: u.Raw,
				Lines:   u.LineOrigins(),
			})
		}
	}
	opaque(footer)
	return b.String()
}

func (m *Merger) warn(target string, d graph.Diagnostic) {
	fields := []zap.Field{
		zap.String("target", target),
		zap.String("kind", string(d.Kind)),
	}
	if d.ReferencedBy != "" {
		fields = append(fields, zap.String("referencedBy", d.ReferencedBy))
	}
	m.log.Warn(d.Message(), fields...)
}
